// Package models defines the domain types for guidegen.
package models

// GuideType classifies a topic guide and selects its output subdirectory.
type GuideType string

const (
	TypeLanguage GuideType = "language"
	TypePattern  GuideType = "pattern"
	TypePlatform GuideType = "platform"
	TypeOther    GuideType = "other"
)

// DisplayOrder is the order in which guide types are grouped on the index page.
var DisplayOrder = []GuideType{TypeLanguage, TypePattern, TypePlatform, TypeOther}

// Dir returns the output subdirectory for the type (the type pluralised).
func (t GuideType) Dir() string {
	return string(t) + "s"
}

// TopicGuide is one markdown file from the guides directory.
type TopicGuide struct {
	Path     string
	Filename string
	Type     GuideType
	Title    string
	Content  string // comment-stripped markdown
}

// RootGuide is the root document, cut at the start-of-guide marker.
type RootGuide struct {
	Path    string
	Content string
}

// Reference is a link from the root guide to a topic guide.
type Reference struct {
	Name   string    `json:"name"`
	Path   string    `json:"path"`
	Type   GuideType `json:"type"`
	APIURL string    `json:"apiUrl"`
}

// GeneratedGuide summarises an emitted topic guide for the index and manifest.
type GeneratedGuide struct {
	Name string
	Type GuideType
	Path string // relative to the output directory, no leading slash
}

// Metadata is the header block of every emitted guide document.
type Metadata struct {
	Name        string    `json:"name"`
	Type        GuideType `json:"type,omitempty"`
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Source      string    `json:"source"`
}

// GuideRecord is the JSON payload written for a topic guide.
type GuideRecord struct {
	Metadata Metadata `json:"metadata"`
	Content  string   `json:"content"`
}

// RootRecord is the JSON payload written to api/guide.json.
type RootRecord struct {
	Metadata   Metadata    `json:"metadata"`
	Content    string      `json:"content"`
	References []Reference `json:"references"`
}
