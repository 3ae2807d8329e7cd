package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestConfig points the preset store into a temp dir and silences logs.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[logging]\nlevel = \"off\"\n\n[presets]\npath = %q\n", filepath.Join(dir, "presets.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func testContext(t *testing.T) *commandContext {
	t.Helper()
	path := writeTestConfig(t)
	verbose := false
	ctx := newCommandContext(&path, &verbose)
	_, err := ctx.ensureConfig()
	require.NoError(t, err)
	return ctx
}
