package emitter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/guidegen/internal/models"
	"github.com/starford/guidegen/internal/storage"
)

// ManifestPath is where the endpoint manifest is written.
const ManifestPath = "manifest.json"

// MainGuideEndpoint is the template endpoint carried over unchanged.
const MainGuideEndpoint = "main_guide"

var lineCommentRe = regexp.MustCompile(`(?m)\s+//.*$`)

// Endpoint is a manifest entry generated for a topic guide.
type Endpoint struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// StripLineComments removes trailing // comments that follow whitespace.
func StripLineComments(text string) string {
	return lineCommentRe.ReplaceAllString(text, "")
}

// GuideEndpoints builds one endpoint per generated guide, grouped by type in
// the order each type is first seen and in processing order within a type.
func GuideEndpoints(generated []models.GeneratedGuide) []Endpoint {
	var order []models.GuideType
	byType := make(map[models.GuideType][]models.GeneratedGuide)
	for _, g := range generated {
		if _, ok := byType[g.Type]; !ok {
			order = append(order, g.Type)
		}
		byType[g.Type] = append(byType[g.Type], g)
	}

	out := make([]Endpoint, 0, len(generated))
	for _, t := range order {
		for _, g := range byType[t] {
			out = append(out, Endpoint{
				Name:        strings.TrimSuffix(path.Base(g.Path), ".json"),
				Description: fmt.Sprintf("%s guide for %s", typeLabel(t), g.Name),
				Path:        "/" + g.Path,
			})
		}
	}
	return out
}

// Manifest is a generated manifest document.
type Manifest struct {
	Data []byte
	// HasMain reports whether the template carried a main_guide endpoint.
	HasMain bool
	// Skipped counts template endpoints that were not JSON objects.
	Skipped int
}

// BuildManifest parses a manifest template and replaces its endpoints with
// the main_guide endpoint followed by one endpoint per generated guide.
// Every other top-level key keeps its position and value.
func BuildManifest(template []byte, generated []models.GeneratedGuide) (*Manifest, error) {
	cleaned := []byte(StripLineComments(string(template)))
	if !json.Valid(cleaned) {
		return nil, errors.New("manifest: template is not valid JSON")
	}

	manifest := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(cleaned, manifest); err != nil {
		return nil, fmt.Errorf("manifest: parse template: %w", err)
	}

	var existing []json.RawMessage
	if raw, ok := manifest.Get("endpoints"); ok {
		if err := json.Unmarshal(raw, &existing); err != nil {
			return nil, fmt.Errorf("manifest: endpoints: %w", err)
		}
	}

	m := &Manifest{}
	var endpoints [][]byte
	for _, raw := range existing {
		var ep struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &ep); err != nil {
			m.Skipped++
			continue
		}
		if ep.Name == MainGuideEndpoint {
			endpoints = append(endpoints, []byte(raw))
			m.HasMain = true
		}
	}
	for _, ep := range GuideEndpoints(generated) {
		raw, err := marshalCompact(ep)
		if err != nil {
			return nil, fmt.Errorf("manifest: encode endpoint %s: %w", ep.Name, err)
		}
		endpoints = append(endpoints, raw)
	}

	list := append([]byte{'['}, bytes.Join(endpoints, []byte{','})...)
	list = append(list, ']')
	manifest.Set("endpoints", list)

	data, err := encodeOrdered(manifest)
	if err != nil {
		return nil, err
	}
	m.Data = data
	return m, nil
}

// encodeOrdered writes the map as a JSON object in insertion order.
func encodeOrdered(m *orderedmap.OrderedMap[string, json.RawMessage]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := marshalCompact(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(pair.Value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("manifest: indent: %w", err)
	}
	return out.Bytes(), nil
}

// WriteManifest reads the template at templatePath from src and writes
// manifest.json. The caller decides whether a failure is fatal.
func (e *Emitter) WriteManifest(src storage.Provider, templatePath string, generated []models.GeneratedGuide) error {
	template, err := src.Read(templatePath)
	if err != nil {
		return err
	}
	m, err := BuildManifest(template, generated)
	if err != nil {
		return err
	}
	if m.Skipped > 0 {
		e.logger.Warn("manifest template endpoints skipped: not JSON objects",
			slog.String("template", templatePath), slog.Int("skipped", m.Skipped))
	}
	if !m.HasMain {
		e.logger.Warn("manifest template has no main_guide endpoint", slog.String("template", templatePath))
	}
	return e.write(ManifestPath, m.Data)
}
