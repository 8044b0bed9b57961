package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freema/fgit/internal/cli"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func testStdio() (cli.Stdio, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return cli.Stdio{In: strings.NewReader(""), Out: &stdout, Err: &stderr}, &stdout, &stderr
}

func TestRun_ConfigLoadFailure(t *testing.T) {
	isolate(t)
	t.Setenv("FGIT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	stdio, stdout, stderr := testStdio()

	assert.Equal(t, 1, run([]string{"--version"}, stdio))
	assert.True(t, strings.HasPrefix(stderr.String(), "Error: loading config: "), stderr.String())
	assert.Empty(t, stdout.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "fgit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o644))
	t.Setenv("FGIT_CONFIG", path)
	stdio, _, stderr := testStdio()

	assert.Equal(t, 1, run([]string{"--version"}, stdio))
	assert.Contains(t, stderr.String(), "logging.format")
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	promPath := filepath.Join(dir, "fgit.prom")
	cfgPath := filepath.Join(dir, "fgit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("metrics:\n  textfile: "+promPath+"\n"), 0o644))
	t.Setenv("FGIT_CONFIG", cfgPath)
	stdio, stdout, stderr := testStdio()

	assert.Equal(t, 0, run([]string{"--version"}, stdio))
	assert.Equal(t, "fgit version dev\n", stdout.String())
	assert.Empty(t, stderr.String())

	raw, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `fgit_commands_total{command="--version",outcome="success"}`)
}
