package writer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// SetExecGlobs walks outRoot and ensures the executable bits are set on
// every file whose tree-relative path matches one of the doublestar
// patterns. It returns how many files ended up executable.
func SetExecGlobs(outRoot string, patterns []string) (int, []string) {
	if len(patterns) == 0 {
		return 0, nil
	}

	var warnings []string
	var valid []string
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			warnings = append(warnings, fmt.Sprintf("⚠️ Invalid exec pattern '%s'", pat))
			continue
		}
		valid = append(valid, pat)
	}
	if len(valid) == 0 {
		return 0, warnings
	}

	count := 0
	err := filepath.WalkDir(outRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outRoot, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, pat := range valid {
			if ok, _ := doublestar.Match(pat, rel); ok {
				ok, warning := ensureExecutable(p)
				if warning != "" {
					warnings = append(warnings, warning)
				}
				if ok {
					count++
				}
				break
			}
		}
		return nil
	})
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("⚠️ Error applying exec patterns in %s: %v", outRoot, err))
	}
	return count, warnings
}

// ensureExecutable sets the executable bits on one file and verifies the
// change took.
func ensureExecutable(path string) (bool, string) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Sprintf("⚠️ File not found: %s", path)
	}
	mode := info.Mode()
	if mode&0o100 != 0 {
		return true, ""
	}

	if err := os.Chmod(path, mode|0o111); err != nil {
		return false, fmt.Sprintf("❌ Permission denied setting executable on %s: %v", path, err)
	}
	info, err = os.Stat(path)
	if err != nil || info.Mode()&0o100 == 0 {
		return false, fmt.Sprintf("⚠️ Failed to verify executable permissions: %s", path)
	}
	return true, ""
}
