package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// renderMarkdown assembles the export document: header, structure fence,
// one section per file sorted case-insensitively, and a summary.
func renderMarkdown(folder string, treeLines []string, files []exportFile, warnings []string) string {
	lines := []string{
		"# Generated Folder Structure",
		fmt.Sprintf("*Generated from: `%s`*", folder),
		fmt.Sprintf("*Timestamp: %s*", time.Now().Format(time.RFC3339)),
		"",
		"## File Structure",
		"```text",
		filepath.Base(filepath.Clean(folder)) + "/",
	}
	lines = append(lines, treeLines...)
	lines = append(lines, "```")

	sorted := make([]exportFile, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Path) < strings.ToLower(sorted[j].Path)
	})
	for _, f := range sorted {
		lines = append(lines,
			"",
			"## "+f.Path,
			"```"+f.Language,
			f.Content,
			"```",
		)
	}

	dirs := 0
	for _, line := range treeLines {
		if strings.HasSuffix(line, "/") {
			dirs++
		}
	}
	lines = append(lines,
		"",
		"## Summary",
		fmt.Sprintf("- Total files: %d", len(files)),
		fmt.Sprintf("- Total directories: %d", dirs),
		fmt.Sprintf("- Warnings: %d", len(warnings)),
	)

	return strings.Join(lines, "\n") + "\n"
}
