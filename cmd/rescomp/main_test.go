package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rescomp/internal/cli"
)

func TestRunWithoutArgumentsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRunRejectsInvalidFlags(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, []string{"-duplicates", "sometimes", "./res"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRunCompilesEndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	resDir := filepath.Join(tmpDir, "res")
	require.NoError(t, os.MkdirAll(resDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(resDir, "main.res.hcl"),
		[]byte("string \"app_name\" {\n  value = \"My App\"\n}\n"), 0o644))

	outDir := filepath.Join(tmpDir, "gen")
	var out bytes.Buffer
	err := run(&out, []string{"-res", resDir, "-out", outDir})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(outDir, "res", "res.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `StringAppName = "My App"`)
}
