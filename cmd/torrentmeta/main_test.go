package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/WendelHime/torrentmeta/internal/torrent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("piece_length: 4\nlog_level: error\n"), 0o644))

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(filepath.Join(content, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(content, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(content, "sub", "b.txt"), []byte("world!"), 0o644))
	out := filepath.Join(dir, "content.torrent")

	stdout, err := run(t, "create", content, "-q", "-o", out,
		"--announce", "http://t.example/announce",
		"--tier", "http://a.example/announce,http://b.example/announce",
		"--node", "router.example:6881")
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	tor, err := torrent.Load(out)
	require.NoError(t, err)
	n, err := tor.PieceLength()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n, "piece length comes from the config file")

	stdout, err = run(t, "inspect", out)
	require.NoError(t, err)
	assert.Regexp(t, `name:\s+content\n`, stdout)
	assert.Regexp(t, `pieces:\s+3\n`, stdout)
	assert.Contains(t, stdout, "http://a.example/announce http://b.example/announce")
	assert.Contains(t, stdout, "router.example:6881")
	assert.Contains(t, stdout, "sub/b.txt")

	stdout, err = run(t, "inspect", "--keys", out)
	require.NoError(t, err)
	assert.Equal(t, []string{"announce", "announce-list", "creation date", "info", "nodes"}, strings.Split(strings.TrimSpace(stdout), "\n"))

	_, err = run(t, "edit", out, "--name", "renamed", "--private", "--no-announce", "--remove-node", "router.example")
	require.NoError(t, err)
	tor, err = torrent.Load(out)
	require.NoError(t, err)
	name, err := tor.Name()
	require.NoError(t, err)
	assert.Equal(t, "renamed", name)
	assert.True(t, tor.IsPrivate())
	_, err = tor.Announce()
	assert.ErrorIs(t, err, torrent.ErrNoAnnounce)
	nodes, err := tor.Nodes()
	require.NoError(t, err)
	assert.Empty(t, nodes)

	stdout, err = run(t, "verify", "-q", out, content)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok: 3 pieces")

	require.NoError(t, os.WriteFile(filepath.Join(content, "a.txt"), []byte("jello"), 0o644))
	stdout, err = run(t, "verify", "-q", out, content)
	assert.Error(t, err)
	assert.Contains(t, stdout, "bad pieces: [0]")
}

func TestCLI_privateAndPublicConflict(t *testing.T) {
	_, err := run(t, "edit", "x.torrent", "--private", "--public")
	assert.Error(t, err)
}

func TestParseTiers(t *testing.T) {
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, parseTiers([]string{"a, b", "", "c,"}))
}
