// internal/report/markdown.go
package report

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// MarkdownFormatter outputs a RunReport as a human-readable Markdown
// document: run metadata, counts, an extension histogram over the written
// files, and the issues bucketed by severity.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the report as Markdown.
func (f *MarkdownFormatter) Format(r *RunReport) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Generation Report\n\n")
	b.WriteString(fmt.Sprintf("- Run: `%s`\n", r.ID))
	b.WriteString(fmt.Sprintf("- Input: `%s`\n", r.Input))
	b.WriteString(fmt.Sprintf("- Output: `%s`\n", r.OutputDir))
	if r.DryRun {
		b.WriteString("- Mode: dry run\n")
	}
	b.WriteString(fmt.Sprintf("- Duration: %s\n", time.Duration(r.DurationMs)*time.Millisecond))

	b.WriteString("\n## Summary\n\n")
	b.WriteString(fmt.Sprintf("- Files in tree: %d\n", r.FilesInTree))
	b.WriteString(fmt.Sprintf("- Files created: %d\n", r.FilesCreated))
	b.WriteString(fmt.Sprintf("- Directories created: %d\n", r.DirsCreated))
	b.WriteString(fmt.Sprintf("- Files written: %d\n", r.FilesWritten))
	b.WriteString(fmt.Sprintf("- Placeholder-only files: %d\n", r.PlaceholdersCreated))
	b.WriteString(fmt.Sprintf("- Lines written (approx): %d\n", r.LinesWritten))
	b.WriteString(fmt.Sprintf("- Unassigned blocks: %d\n", r.UnassignedBlocks))

	if hist := extensionHistogram(r.WrittenFiles); len(hist) > 0 {
		b.WriteString("\n## Files by Extension\n\n")
		for _, h := range hist {
			b.WriteString(fmt.Sprintf("- `%s`: %d\n", h.ext, h.count))
		}
	}

	b.WriteString("\n## Issues\n\n")
	if r.IssueCount() == 0 && len(r.Infos) == 0 {
		b.WriteString("✅ None\n")
	}
	writeIssueSection(&b, "Errors", r.Errors)
	writeIssueSection(&b, "Warnings", r.Warnings)
	writeIssueSection(&b, "Notes", r.Infos)

	b.WriteString("\n## Unassigned Blocks\n\n")
	if r.UnassignedBlocks > 0 {
		b.WriteString(fmt.Sprintf("- %d saved in `UNASSIGNED/`\n", r.UnassignedBlocks))
	} else {
		b.WriteString("✅ None\n")
	}

	if len(r.SkippedFiles) > 0 {
		b.WriteString("\n## Skipped Files\n\n")
		for _, p := range r.SkippedFiles {
			b.WriteString(fmt.Sprintf("- `%s`\n", p))
		}
	}

	return []byte(b.String()), nil
}

// writeIssueSection emits one severity bucket. The messages already carry
// their glyphs, so they are listed as-is.
func writeIssueSection(b *strings.Builder, title string, msgs []string) {
	if len(msgs) == 0 {
		return
	}
	b.WriteString("### " + title + "\n\n")
	for _, m := range msgs {
		b.WriteString("- " + m + "\n")
	}
	b.WriteString("\n")
}

type extCount struct {
	ext   string
	count int
}

// extensionHistogram counts files per extension, most frequent first with
// ties broken by name. Extensionless files land under "(none)".
func extensionHistogram(files []string) []extCount {
	counts := make(map[string]int)
	for _, f := range files {
		ext := strings.ToLower(path.Ext(f))
		if ext == "" {
			ext = "(none)"
		}
		counts[ext]++
	}

	hist := make([]extCount, 0, len(counts))
	for ext, n := range counts {
		hist = append(hist, extCount{ext, n})
	}
	sort.Slice(hist, func(i, j int) bool {
		if hist[i].count != hist[j].count {
			return hist[i].count > hist[j].count
		}
		return hist[i].ext < hist[j].ext
	})
	return hist
}
