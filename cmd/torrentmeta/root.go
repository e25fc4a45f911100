package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/WendelHime/torrentmeta/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has loaded the
// configuration.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		configPath string
		logLevel   string
	)
	root := &cobra.Command{
		Use:          "torrentmeta",
		Short:        "Create, inspect, edit and verify .torrent files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			return a.setupLogger(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logFile != nil {
				return a.logFile.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newCreateCmd(a),
		newInspectCmd(a),
		newEditCmd(a),
		newVerifyCmd(a),
	)
	return root
}

// setupLogger logs as text to stderr, or as JSON to log_file when one is
// configured.
func (a *app) setupLogger(stderr io.Writer) error {
	level, err := config.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}
	if a.cfg.LogFile == "" {
		a.logger = slog.New(slog.NewTextHandler(stderr, opts))
		return nil
	}
	f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	a.logFile = f
	a.logger = slog.New(slog.NewJSONHandler(f, opts))
	return nil
}
