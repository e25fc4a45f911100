package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/WendelHime/torrentmeta/internal/piece"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultPieceLength int64 = 262144

type Config struct {
	PieceLength  int64      `yaml:"piece_length"`
	Announce     string     `yaml:"announce"`
	AnnounceList [][]string `yaml:"announce_list"`
	Private      bool       `yaml:"private"`
	LogLevel     string     `yaml:"log_level"`
	LogFile      string     `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		PieceLength: DefaultPieceLength,
		LogLevel:    "info",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/torrentmeta/config.yaml or its platform
// equivalent. It is empty when no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "torrentmeta", "config.yaml")
}

// ReadConfigFromFile overlays the YAML file at path on the defaults.
func ReadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Load reads the explicitly requested file, or the default location if path
// is empty. A missing file at the default location yields the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return ReadConfigFromFile(path)
	}
	path = DefaultPath()
	if path == "" {
		return Default(), nil
	}
	cfg, err := ReadConfigFromFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	if err := piece.ValidateLength(c.PieceLength); err != nil {
		return errors.Wrap(err, "piece_length")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "log_level %q", s)
	}
	return level, nil
}
