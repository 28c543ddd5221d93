// Package assembler turns parsed documents into the records the emitter writes.
package assembler

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/guidegen/internal/apperr"
	"github.com/starford/guidegen/internal/models"
	"github.com/starford/guidegen/internal/parser"
)

// DateLayout is the format of metadata.lastUpdated.
const DateLayout = "2006-01-02"

// Options carries the fixed metadata stamped onto every record.
type Options struct {
	Name      string // root guide name
	Version   string
	SourceURL string // repository URL; topic guide sources are derived from it
	GuidesDir string // guides directory relative to the repository root
	BaseURL   string // API prefix, e.g. "api/guides"
	Now       func() time.Time
}

// GuideOutput pairs a topic guide's JSON record with its index entry.
type GuideOutput struct {
	Record    models.GuideRecord
	Generated models.GeneratedGuide
}

// Bundle is everything the emitter needs for one run.
type Bundle struct {
	Root   models.RootRecord
	Guides []GuideOutput
}

// Generated returns the index entries of all guides in processing order.
func (b *Bundle) Generated() []models.GeneratedGuide {
	out := make([]models.GeneratedGuide, 0, len(b.Guides))
	for _, g := range b.Guides {
		out = append(out, g.Generated)
	}
	return out
}

// Assembler builds a Bundle from a root guide and topic guides.
type Assembler struct {
	opts Options
}

// New creates an Assembler. A nil clock defaults to time.Now and an empty
// BaseURL to parser.DefaultBaseURL.
func New(opts Options) *Assembler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BaseURL == "" {
		opts.BaseURL = parser.DefaultBaseURL
	}
	return &Assembler{opts: opts}
}

// SplitAtMarker strips comments from text and returns everything from the
// first occurrence of marker to the end.
func SplitAtMarker(text, marker string) (string, error) {
	stripped := parser.StripComments(text)
	idx := strings.Index(stripped, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", apperr.ErrMarkerNotFound, marker)
	}
	return stripped[idx:], nil
}

// OutputPath returns the path, relative to the output directory, of the JSON
// record for a guide file of the given type.
func (a *Assembler) OutputPath(t models.GuideType, filename string) string {
	return a.opts.BaseURL + "/" + t.Dir() + "/" + parser.JSONName(filename)
}

// Assemble builds the root record and one record per topic guide.
// Topic guides keep their input order.
func (a *Assembler) Assemble(root models.RootGuide, guides []models.TopicGuide) Bundle {
	date := a.opts.Now().Format(DateLayout)

	b := Bundle{
		Root: models.RootRecord{
			Metadata: models.Metadata{
				Name:        a.opts.Name,
				Version:     a.opts.Version,
				LastUpdated: date,
				Source:      a.opts.SourceURL,
			},
			Content:    root.Content,
			References: parser.ExtractReferences(root.Content, a.opts.BaseURL),
		},
		Guides: make([]GuideOutput, 0, len(guides)),
	}

	for _, g := range guides {
		b.Guides = append(b.Guides, GuideOutput{
			Record: models.GuideRecord{
				Metadata: models.Metadata{
					Name:        g.Title,
					Type:        g.Type,
					Version:     a.opts.Version,
					LastUpdated: date,
					Source:      a.opts.SourceURL + "/" + strings.Trim(a.opts.GuidesDir, "/") + "/" + g.Filename,
				},
				Content: g.Content,
			},
			Generated: models.GeneratedGuide{
				Name: g.Title,
				Type: g.Type,
				Path: a.OutputPath(g.Type, g.Filename),
			},
		})
	}
	return b
}
