package export

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/julianshen/mdscaffold/internal/markdown"
	"github.com/julianshen/mdscaffold/internal/tree"
)

// compareStructure re-parses the rendered Markdown the way the generation
// pipeline would and warns when the structure fence disagrees with the
// exported file list. This is the round-trip check.
func compareStructure(cfg Config, content string, fileList []string) []string {
	tokens := markdown.Tokenize([]byte(content))
	block := markdown.ExtractStructureBlock(content, tokens)
	if block == "" {
		return []string{"⚠️ Export verification found no structure fence"}
	}

	rootPrefix := filepath.Base(filepath.Clean(cfg.Folder)) + "/"
	parsed := make(map[string]bool)
	for _, entry := range tree.Parse(block, cfg.FilesAlways, cfg.DirsAlways) {
		if !tree.IsFile(path.Base(entry), cfg.FilesAlways, cfg.DirsAlways) {
			continue
		}
		parsed[strings.TrimPrefix(entry, rootPrefix)] = true
	}

	exported := make(map[string]bool, len(fileList))
	for _, f := range fileList {
		exported[f] = true
	}

	var missing, extra []string
	for f := range exported {
		if !parsed[f] {
			missing = append(missing, f)
		}
	}
	for f := range parsed {
		if !exported[f] {
			extra = append(extra, f)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	var warnings []string
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("⚠️ Files in folder but not in markdown: %s", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		warnings = append(warnings, fmt.Sprintf("⚠️ Files in markdown but not in folder: %s", strings.Join(extra, ", ")))
	}
	return warnings
}
