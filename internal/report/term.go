// internal/report/term.go
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#EEEEEE"})
	summaryOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#007700", Dark: "#55FF55"})
	summaryWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"})
	summaryErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AA0000", Dark: "#FF5555"})
)

// Summary renders the end-of-run banner shown on stderr.
func Summary(r *RunReport) string {
	lines := []string{
		summaryTitleStyle.Render("---- Final Report ----"),
		fmt.Sprintf("Files in tree: %d", r.FilesInTree),
		fmt.Sprintf("Files created: %d", r.FilesCreated),
		fmt.Sprintf("Directories created: %d", r.DirsCreated),
		fmt.Sprintf("Files written: %d", r.FilesWritten),
		fmt.Sprintf("Placeholders: %d", r.PlaceholdersCreated),
		fmt.Sprintf("Lines written: %d", r.LinesWritten),
		fmt.Sprintf("Duration: %dms", r.DurationMs),
	}

	switch {
	case len(r.Errors) > 0:
		lines = append(lines, summaryErrStyle.Render(fmt.Sprintf("❌ %d error(s)", len(r.Errors))))
	case r.UnassignedBlocks > 0:
		lines = append(lines, summaryWarnStyle.Render(fmt.Sprintf("⚠️ %d unassigned block(s) saved in UNASSIGNED/", r.UnassignedBlocks)))
	case len(r.Warnings) > 0:
		lines = append(lines, summaryWarnStyle.Render(fmt.Sprintf("⚠️ %d warning(s)", len(r.Warnings))))
	default:
		lines = append(lines, summaryOKStyle.Render("✅ All files created and verified successfully"))
	}
	return strings.Join(lines, "\n")
}

// TermRenderer wraps Glamour for rendering the Markdown report as styled
// terminal output in preview mode.
type TermRenderer struct {
	renderer *glamour.TermRenderer
}

// NewTermRenderer creates a TermRenderer with auto-detected style and the
// given word wrap width. Returns an error if the Glamour renderer cannot
// be created.
func NewTermRenderer(width int) (*TermRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating glamour renderer: %w", err)
	}
	return &TermRenderer{renderer: r}, nil
}

// Render processes markdown text into styled terminal output.
func (t *TermRenderer) Render(md string) (string, error) {
	if md == "" {
		return "", nil
	}
	if t.renderer == nil {
		return md, nil
	}
	return t.renderer.Render(md)
}
