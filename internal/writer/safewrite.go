package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// maxWriteSize caps a single written file.
const maxWriteSize = 100 << 20

// SafeWrite writes content to target through a temp file and an atomic
// rename. It reports whether the file was written; failures and skips
// become warnings, never errors, so one bad file cannot stop a run.
func SafeWrite(target, content string, noOverwrite bool) (bool, []string) {
	var warnings []string

	if len(content) > maxWriteSize {
		warnings = append(warnings, fmt.Sprintf("❌ Content too large for %s: %d bytes > %d bytes limit", target, len(content), maxWriteSize))
		return false, warnings
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		warnings = append(warnings, fmt.Sprintf("❌ Failed to create parent directories for %s: %v", target, err))
		return false, warnings
	}

	if info, err := os.Stat(target); err == nil {
		if info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("❌ Path exists as directory: %s", target))
			return false, warnings
		}
		if noOverwrite {
			warnings = append(warnings, fmt.Sprintf("ℹ️ Skipped existing file (--no-overwrite): %s", target))
			return false, warnings
		}
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		warnings = append(warnings, fmt.Sprintf("❌ Error during file write operation for %s: %v", target, err))
		os.Remove(tmp)
		return false, warnings
	}
	if err := os.Rename(tmp, target); err != nil {
		warnings = append(warnings, fmt.Sprintf("❌ Error during file write operation for %s: %v", target, err))
		os.Remove(tmp)
		return false, warnings
	}
	return true, warnings
}
