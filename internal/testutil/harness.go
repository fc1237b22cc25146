// Package testutil provides a standardized harness for compiling resource
// files end to end inside tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/rescomp/internal/app"
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/emit"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a compile run.
type HarnessResult struct {
	Units     []emit.Unit
	Diags     diag.Diagnostics
	Err       error
	LogOutput string
}

// Unit returns the rendered unit at the given path, failing the test when
// it was not produced.
func (r *HarnessResult) Unit(t *testing.T, path string) emit.Unit {
	t.Helper()
	for _, u := range r.Units {
		if u.Path == path {
			return u
		}
	}
	require.Failf(t, "missing unit", "no unit rendered at %q", path)
	return emit.Unit{}
}

// Compile writes the given files into a temporary directory and runs the
// full pipeline over them. Keys are paths relative to the resource root,
// so nested entries such as "test/extra.res.hcl" create their
// subdirectories.
func Compile(t *testing.T, files map[string]string, mutate ...func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		ResPath:   tmpDir,
		OutputDir: filepath.Join(tmpDir, "gen"),
		LogLevel:  "debug",
	})
	require.NoError(t, err)
	for _, m := range mutate {
		m(cfg)
	}

	var logBuf SafeBuffer
	compiler := app.New(&logBuf, cfg)
	units, diags, err := compiler.Compile(context.Background())

	return &HarnessResult{
		Units:     units,
		Diags:     diags,
		Err:       err,
		LogOutput: logBuf.String(),
	}
}
