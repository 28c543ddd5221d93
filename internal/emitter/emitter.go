// Package emitter writes the generated JSON API, index page, and manifest.
package emitter

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/guidegen/internal/assembler"
	"github.com/starford/guidegen/internal/checksum"
	"github.com/starford/guidegen/internal/models"
	"github.com/starford/guidegen/internal/storage"
)

// RootGuidePath is where the root guide record is written.
const RootGuidePath = "api/guide.json"

// Artifact is a file written during a run.
type Artifact struct {
	Path     string
	Checksum string
}

// Options configures an Emitter.
type Options struct {
	Title   string // shown on the index page
	BaseURL string // API prefix for topic guide records
}

// Emitter writes artifacts below an output directory. Every write overwrites.
type Emitter struct {
	out       storage.Provider
	opts      Options
	logger    *slog.Logger
	artifacts []Artifact
}

// New creates an Emitter writing to out.
func New(out storage.Provider, opts Options, logger *slog.Logger) *Emitter {
	return &Emitter{out: out, opts: opts, logger: logger}
}

// Artifacts returns the files written so far, in write order.
func (e *Emitter) Artifacts() []Artifact {
	return e.artifacts
}

// Prepare creates the API directory tree, including an empty directory for
// every guide type.
func (e *Emitter) Prepare() error {
	for _, t := range models.DisplayOrder {
		if err := e.out.MkdirAll(e.opts.BaseURL + "/" + t.Dir()); err != nil {
			return err
		}
	}
	return nil
}

// WriteGuides writes one JSON record per topic guide.
func (e *Emitter) WriteGuides(b *assembler.Bundle) error {
	for _, g := range b.Guides {
		if err := e.writeJSON(g.Generated.Path, g.Record); err != nil {
			return err
		}
	}
	return nil
}

// WriteRoot writes the root guide record.
func (e *Emitter) WriteRoot(b *assembler.Bundle) error {
	return e.writeJSON(RootGuidePath, b.Root)
}

func (e *Emitter) writeJSON(path string, v any) error {
	data, err := marshalIndent(v)
	if err != nil {
		return fmt.Errorf("emitter: encode %s: %w", path, err)
	}
	return e.write(path, data)
}

func (e *Emitter) write(path string, data []byte) error {
	if err := e.out.Write(path, data); err != nil {
		return err
	}
	a := Artifact{Path: path, Checksum: checksum.Sum(data)}
	e.artifacts = append(e.artifacts, a)
	e.logger.Info("created", slog.String("path", path), slog.String("sha256", a.Checksum))
	return nil
}

// typeLabel returns the display label of a guide type, e.g. "Language".
func typeLabel(t models.GuideType) string {
	return cases.Title(language.English).String(string(t))
}
