// Package report prints a styled summary of a generation run.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/guidegen/internal/checksum"
	"github.com/starford/guidegen/internal/emitter"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6188"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A9DC76"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FC9867"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#727072"))
)

// Summary describes a finished run.
type Summary struct {
	OutputDir string
	Artifacts []emitter.Artifact
	Files     []string // every file under OutputDir after the run
	Warnings  []string
}

// Render formats s for a terminal.
func Render(s Summary) string {
	var b strings.Builder
	for _, a := range s.Artifacts {
		fmt.Fprintf(&b, "%s %s %s\n", successStyle.Render("✓"), a.Path, dimStyle.Render(checksum.Short(a.Checksum)))
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "%s %s\n", warningStyle.Render("!"), w)
	}
	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render("Generated files in "+s.OutputDir+":"))
	for _, f := range s.Files {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	return b.String()
}

// Write renders s to w.
func Write(w io.Writer, s Summary) error {
	_, err := io.WriteString(w, Render(s))
	return err
}
