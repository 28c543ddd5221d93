// Package parser extracts titles, guide types, and guide references from
// Markdown content.
package parser

import (
	"errors"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/starford/guidegen/internal/models"
)

// DefaultBaseURL is the API prefix used for reference URLs.
const DefaultBaseURL = "api/guides"

var (
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	titleRe   = regexp.MustCompile(`(?m)^# (.*?)$`)
	linkRe    = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// ErrInvalidEncoding is returned by ParseGuide for content that is not UTF-8.
var ErrInvalidEncoding = errors.New("parser: content is not valid UTF-8")

type typeRule struct {
	match  func(lower string) bool
	result models.GuideType
}

func contains(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// typeRules are evaluated in order; the first match wins.
var typeRules = []typeRule{
	{contains("python"), models.TypeLanguage},
	{contains("make"), models.TypePattern},
	{contains("postgresql", "sql"), models.TypePlatform},
	{contains("shell"), models.TypeLanguage},
}

// StripComments removes every HTML comment block, including multi-line ones.
// Removal repeats until no comment remains, so a comment spliced together by
// an earlier removal is stripped too.
func StripComments(text string) string {
	for {
		out := commentRe.ReplaceAllString(text, "")
		if out == text {
			return out
		}
		text = out
	}
}

// ExtractTitle returns the text of the first level-1 heading. When there is
// none it falls back to filename without its .md extension.
func ExtractTitle(text, filename string) string {
	if m := titleRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.ReplaceAll(filepath.Base(filename), ".md", "")
}

// InferType classifies a guide by case-insensitive substrings of its path.
func InferType(p string) models.GuideType {
	lower := strings.ToLower(p)
	for _, r := range typeRules {
		if r.match(lower) {
			return r.result
		}
	}
	return models.TypeOther
}

// ExtractReferences returns every [name](path) link whose path points at a
// guide document, in source order. An empty baseURL means DefaultBaseURL.
func ExtractReferences(content, baseURL string) []models.Reference {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	out := []models.Reference{}
	for _, m := range linkRe.FindAllStringSubmatch(content, -1) {
		name, target := m[1], m[2]
		if !strings.Contains(target, "guides") || !strings.HasSuffix(target, ".md") {
			continue
		}
		t := InferType(target)
		out = append(out, models.Reference{
			Name:   name,
			Path:   target,
			Type:   t,
			APIURL: baseURL + "/" + t.Dir() + "/" + JSONName(path.Base(target)),
		})
	}
	return out
}

// JSONName maps a markdown filename to its JSON output filename.
func JSONName(filename string) string {
	return strings.ReplaceAll(filename, ".md", ".json")
}

// ParseGuide builds a TopicGuide from the raw bytes of a guide file.
func ParseGuide(p string, data []byte) (*models.TopicGuide, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	content := StripComments(string(data))
	filename := filepath.Base(p)
	return &models.TopicGuide{
		Path:     p,
		Filename: filename,
		Type:     InferType(p),
		Title:    ExtractTitle(content, filename),
		Content:  content,
	}, nil
}
