package tree

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	windowsDrivePattern = regexp.MustCompile(`^[A-Za-z]:\\`)
	protocolPattern     = regexp.MustCompile(`(?i)^[a-z]+://`)
	controlCharPattern  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	reservedNamePattern = regexp.MustCompile(`(?i)^(CON|PRN|AUX|NUL|COM[1-9]|LPT[1-9]|CLOCK\$)$`)
)

// dangerousExtensions are file types skipped during writing unless the run
// explicitly allows them.
var dangerousExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".sh": true, ".bin": true,
	".app": true, ".dmg": true, ".pkg": true, ".msi": true, ".scr": true,
	".com": true, ".jar": true, ".war": true, ".ear": true, ".apk": true,
	".ipa": true,
}

const (
	maxEntryLength = 200
	maxEntryDepth  = 20
)

// ValidateEntryPath checks that a tree entry is safe to materialize under an
// output root. Returns nil when the entry is acceptable, otherwise an error
// describing the first rule it violates. The rules mirror the write-side
// threat model: no traversal, no absolute or remote targets, no names a
// Windows filesystem would reject.
func ValidateEntryPath(entry string, allowDangerous bool) error {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return fmt.Errorf("empty path")
	}
	if controlCharPattern.MatchString(entry) {
		return fmt.Errorf("control characters not allowed in paths")
	}
	if strings.HasPrefix(entry, "/") || strings.HasPrefix(entry, `\`) {
		if strings.HasPrefix(entry, `\\`) {
			return fmt.Errorf("windows UNC paths not allowed")
		}
		return fmt.Errorf("absolute paths not allowed")
	}
	if windowsDrivePattern.MatchString(entry) {
		return fmt.Errorf("absolute windows paths not allowed")
	}
	if protocolPattern.MatchString(entry) {
		return fmt.Errorf("url protocols not allowed in paths")
	}

	for _, part := range strings.Split(strings.ReplaceAll(entry, `\`, "/"), "/") {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			return fmt.Errorf("parent directory traversal not allowed")
		}
		if reservedNamePattern.MatchString(part) {
			return fmt.Errorf("reserved name not allowed: %s", part)
		}
		if strings.HasSuffix(part, " ") || strings.HasSuffix(part, ".") {
			return fmt.Errorf("trailing spaces or dots not allowed in path components")
		}
		if strings.ContainsAny(part, `<>:"|?*`) {
			return fmt.Errorf("invalid characters in path component: %s", part)
		}
	}

	if !allowDangerous {
		if ext := strings.ToLower(path.Ext(entry)); dangerousExtensions[ext] {
			return fmt.Errorf("potentially dangerous file extension: %s", ext)
		}
	}

	if len(entry) > maxEntryLength {
		return fmt.Errorf("path too long (max %d characters)", maxEntryLength)
	}
	if strings.Count(entry, "/") >= maxEntryDepth {
		return fmt.Errorf("path too deep (max %d levels)", maxEntryDepth)
	}
	return nil
}
