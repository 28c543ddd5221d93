package emitter

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"sort"

	"github.com/starford/guidegen/internal/models"
)

// IndexPath is where the index page is written.
const IndexPath = "index.html"

type indexRow struct {
	Label       string
	Href        string
	File        string
	Description string
}

type indexPage struct {
	Title       string
	RootPath    string
	ExamplePath string
	Rows        []indexRow
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}} API</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 20px; }
        h1, h2, h3 { color: #333; }
        a { color: #0366d6; text-decoration: none; }
        a:hover { text-decoration: underline; }
        code { background-color: #f6f8fa; padding: 3px 5px; border-radius: 3px; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th { background-color: #f6f8fa; text-align: left; padding: 10px; }
        td { border-bottom: 1px solid #eee; padding: 10px; }
        .card { background-color: #f6f8fa; padding: 15px; border-radius: 5px; margin: 20px 0; }
    </style>
</head>
<body>
    <h1>{{.Title}} API</h1>
    <p>Static JSON API for the {{.Title}}.</p>

    <div class="card">
        <h2>Manifest File</h2>
        <p><a href="manifest.json">manifest.json</a> lists the endpoints an MCP (Model Context Protocol) server exposes.</p>
    </div>

    <h2>Available Resources</h2>
    <table>
        <thead>
            <tr>
                <th>Type</th>
                <th>Resource</th>
                <th>Description</th>
            </tr>
        </thead>
        <tbody>
{{- range .Rows}}
            <tr>
                <td>{{.Label}}</td>
                <td><a href="{{.Href}}">{{.File}}</a></td>
                <td>{{.Description}}</td>
            </tr>
{{- end}}
        </tbody>
    </table>

    <h2>Usage with MCP</h2>
    <pre><code>GET {{.RootPath}}
GET {{.ExamplePath}}
GET manifest.json</code></pre>
</body>
</html>
`))

// indexRows lists the manifest, the root guide, then every topic guide
// grouped by type in display order and sorted by name within a group.
func indexRows(title string, generated []models.GeneratedGuide) []indexRow {
	rows := []indexRow{
		{Label: "Manifest", Href: ManifestPath, File: ManifestPath, Description: "MCP Server Manifest"},
		{Label: "Main Guide", Href: RootGuidePath, File: path.Base(RootGuidePath), Description: "Complete " + title},
	}

	byType := make(map[models.GuideType][]models.GeneratedGuide)
	for _, g := range generated {
		byType[g.Type] = append(byType[g.Type], g)
	}
	for _, t := range models.DisplayOrder {
		group := byType[t]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		for _, g := range group {
			rows = append(rows, indexRow{
				Label:       typeLabel(t),
				Href:        g.Path,
				File:        path.Base(g.Path),
				Description: g.Name,
			})
		}
	}
	return rows
}

// WriteIndex renders and writes index.html.
func (e *Emitter) WriteIndex(generated []models.GeneratedGuide) error {
	page := indexPage{
		Title:       e.opts.Title,
		RootPath:    RootGuidePath,
		ExamplePath: e.opts.BaseURL + "/" + models.TypeLanguage.Dir() + "/python.json",
		Rows:        indexRows(e.opts.Title, generated),
	}
	if len(generated) > 0 {
		page.ExamplePath = generated[0].Path
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, page); err != nil {
		return fmt.Errorf("emitter: render index: %w", err)
	}
	return e.write(IndexPath, buf.Bytes())
}
