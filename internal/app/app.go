package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/rescomp/internal/ctxlog"
	"github.com/vk/rescomp/internal/diag"
	"github.com/vk/rescomp/internal/emit"
	"github.com/vk/rescomp/internal/fsutil"
	"github.com/vk/rescomp/internal/graph"
	"github.com/vk/rescomp/internal/input"
)

// resExtension is the suffix of resource description files.
const resExtension = ".res.hcl"

// App encapsulates the compiler's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// New is the constructor for the compiler application. It returns a fully
// initialized App instance with its own isolated logger.
func New(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")
	return &App{outW: outW, logger: logger, config: cfg}
}

// Compile runs the whole pipeline up to rendering and returns the source
// units together with every diagnostic produced along the way. Units are
// only meaningful when the diagnostics carry no errors; callers must gate
// on that before using them.
func (a *App) Compile(ctx context.Context) ([]emit.Unit, diag.Diagnostics, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	files, err := fsutil.FindFilesByExtension(a.config.ResPath, resExtension)
	if err != nil {
		return nil, nil, fmt.Errorf("discovering resource files: %w", err)
	}
	a.logger.Debug("Discovered resource files.", "count", len(files))

	records, diags, err := input.DecodeAll(ctx, files)
	if err != nil {
		return nil, diags, err
	}

	builder := graph.NewBuilder(graph.BuilderOptions{
		DuplicatesAreFatal: a.config.DuplicatesAreFatal,
		IncludeTest:        a.config.IncludeTest,
	})
	builder.AddFile(ctx, records)
	g, foldDiags := builder.Finish(ctx)
	diags = diags.Extend(foldDiags)

	diags = diags.Extend(Analyze(ctx, g))
	if diags.HasErrors() {
		return nil, diags, nil
	}

	units, emitDiags := emit.Render(ctx, g, emit.Options{Profile: a.config.Profile})
	diags = diags.Extend(emitDiags)
	if diags.HasErrors() {
		return nil, diags, nil
	}
	return units, diags, nil
}

// Run compiles, reports diagnostics, and writes the generated units. The
// returned error is non-nil when the build must fail: either an
// infrastructure failure or fatal diagnostics.
func (a *App) Run(ctx context.Context) error {
	units, diags, err := a.Compile(ctx)
	a.report(diags)
	if err != nil {
		return err
	}
	if diags.HasErrors() {
		return fmt.Errorf("build failed with %d error(s)", len(diags.Errs()))
	}

	for _, unit := range units {
		path := filepath.Join(a.config.OutputDir, unit.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(unit.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	a.logger.Info("Build complete.", "units", len(units), "output", a.config.OutputDir)
	return nil
}

// report prints the aggregated, origin-annotated diagnostics in pass
// order.
func (a *App) report(diags diag.Diagnostics) {
	for _, d := range diags {
		fmt.Fprintln(a.outW, d.Error())
	}
}
