// Package internal provides the application wiring: configuration, logging,
// and the generation pipeline.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/guidegen/internal/apperr"
	"github.com/starford/guidegen/internal/assembler"
	"github.com/starford/guidegen/internal/emitter"
	"github.com/starford/guidegen/internal/models"
	"github.com/starford/guidegen/internal/parser"
	"github.com/starford/guidegen/internal/report"
	"github.com/starford/guidegen/internal/storage"
	"github.com/starford/guidegen/internal/watch"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{
		now:       time.Now,
		logWriter: os.Stderr,
		stdout:    os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logWriter, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	logger.Info("Configuration loaded",
		slog.String("marker", a.config.Guide.Marker),
		slog.String("guides_dir", a.config.Guide.GuidesDir),
		slog.String("manifest_template", a.config.Manifest.Template),
		slog.String("log_level", a.config.App.LogLevel.String()))
	return logger
}

// Run performs one full generation from rootPath into outputDir.
func Run(ctx context.Context, rootPath, outputDir string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	slog.SetDefault(logger)

	return app.generate(ctx, rootPath, outputDir, logger)
}

// Watch generates once and then regenerates whenever the root document, a
// guide, or the manifest template changes, until ctx is cancelled or the
// process receives SIGINT or SIGTERM.
func Watch(ctx context.Context, rootPath, outputDir string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	slog.SetDefault(logger)

	if err := app.generate(ctx, rootPath, outputDir, logger); err != nil {
		return err
	}

	cfg := app.config
	projectDir, err := filepath.Abs(filepath.Dir(rootPath))
	if err != nil {
		return fmt.Errorf("resolve project dir: %w", err)
	}
	rootName := filepath.Base(rootPath)
	templatePath := filepath.Join(projectDir, filepath.FromSlash(cfg.Manifest.Template))
	templateName := filepath.Base(templatePath)

	targets := []watch.Target{
		{Dir: projectDir, Match: func(name string) bool { return name == rootName }},
		{Dir: filepath.Join(projectDir, filepath.FromSlash(cfg.Guide.GuidesDir)), Match: func(name string) bool {
			return strings.HasSuffix(name, ".md")
		}},
		{Dir: filepath.Dir(templatePath), Match: func(name string) bool { return name == templateName }},
	}

	g, gCtx := errgroup.WithContext(ctx)
	gCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	g.Go(func() error {
		return watch.Run(gCtx, targets, cfg.Watch.Debounce, logger, func(ctx context.Context) error {
			return app.generate(ctx, rootPath, outputDir, logger)
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}
		cancel()
		return nil
	})

	return g.Wait()
}

// generate runs the pipeline once: load, extract, assemble, emit.
func (a *application) generate(ctx context.Context, rootPath, outputDir string, logger *slog.Logger) error {
	cfg := a.config
	logger = logger.With(slog.String("run_id", uuid.NewString()))
	start := time.Now()

	// Loader.
	src, err := storage.NewFS(filepath.Dir(rootPath))
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrRootUnreadable, err)
	}
	rootName := filepath.Base(rootPath)
	rootData, err := src.Read(rootName)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrRootUnreadable, err)
	}
	if !utf8.Valid(rootData) {
		return fmt.Errorf("%w: %s: %w", apperr.ErrRootUnreadable, rootPath, parser.ErrInvalidEncoding)
	}
	rootContent, err := assembler.SplitAtMarker(string(rootData), cfg.Guide.Marker)
	if err != nil {
		return err
	}

	logger.Info("Looking for guides", slog.String("dir", filepath.Join(src.Root(), cfg.Guide.GuidesDir)))
	paths, err := src.ListMarkdown(cfg.Guide.GuidesDir)
	if err != nil {
		return fmt.Errorf("list guides: %w", err)
	}

	// Extractor.
	var warnings []string
	guides := make([]models.TopicGuide, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := loadGuide(src, p)
		if err != nil {
			logger.Warn("skipping guide", slog.String("path", p), slog.String("error", err.Error()))
			warnings = append(warnings, fmt.Sprintf("skipped %s: %v", p, err))
			continue
		}
		guides = append(guides, *g)
	}

	// Assembler.
	asm := assembler.New(assembler.Options{
		Name:      cfg.Guide.Name,
		Version:   cfg.Guide.Version,
		SourceURL: cfg.Guide.SourceURL,
		GuidesDir: cfg.Guide.GuidesDir,
		BaseURL:   cfg.API.BaseURL,
		Now:       a.now,
	})
	bundle := asm.Assemble(models.RootGuide{Path: rootPath, Content: rootContent}, guides)

	// Emitter.
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out, err := storage.NewFS(outputDir)
	if err != nil {
		return err
	}
	em := emitter.New(out, emitter.Options{Title: cfg.Guide.Name, BaseURL: cfg.API.BaseURL}, logger)
	if err := em.Prepare(); err != nil {
		return err
	}
	if err := em.WriteGuides(&bundle); err != nil {
		return err
	}
	if err := em.WriteRoot(&bundle); err != nil {
		return err
	}
	if err := em.WriteIndex(bundle.Generated()); err != nil {
		return err
	}
	if err := em.WriteManifest(src, cfg.Manifest.Template, bundle.Generated()); err != nil {
		logger.Warn("manifest generation failed", slog.String("error", err.Error()))
		warnings = append(warnings, fmt.Sprintf("manifest not generated: %v", err))
	}

	files, err := out.Walk()
	if err != nil {
		return err
	}
	logger.Info("Generation complete",
		slog.Int("guides", len(bundle.Guides)),
		slog.Int("references", len(bundle.Root.References)),
		slog.Duration("elapsed", time.Since(start)))

	return report.Write(a.stdout, report.Summary{
		OutputDir: outputDir,
		Artifacts: em.Artifacts(),
		Files:     files,
		Warnings:  warnings,
	})
}

func loadGuide(src storage.Provider, p string) (*models.TopicGuide, error) {
	data, err := src.Read(p)
	if err != nil {
		return nil, err
	}
	return parser.ParseGuide(p, data)
}
