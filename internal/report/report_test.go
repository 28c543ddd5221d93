package report

import (
	"strings"
	"testing"

	"github.com/starford/guidegen/internal/emitter"
)

func TestRender(t *testing.T) {
	out := Render(Summary{
		OutputDir: "site",
		Artifacts: []emitter.Artifact{
			{Path: "api/guide.json", Checksum: "0123456789abcdef0123"},
		},
		Files:    []string{"api/guide.json", "index.html"},
		Warnings: []string{"manifest skipped"},
	})

	for _, want := range []string{"api/guide.json", "0123456789ab", "manifest skipped", "Generated files in site:", "  - index.html"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0123456789abc") {
		t.Errorf("checksum not shortened:\n%s", out)
	}
}
