package assign

import (
	"path"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeInfo lowercases an info string and collapses internal whitespace.
func normalizeInfo(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// strippableExtensions are dropped when building filename variations, so an
// info string like "main" still reaches "main.py".
var strippableExtensions = []string{
	".py", ".js", ".ts", ".json", ".md", ".txt", ".yml", ".yaml", ".xml", ".html", ".css",
}

var variationCache, _ = lru.New[string, map[string]bool](100)

// filenameVariations returns the spellings under which a filename should
// still be recognized: lowercased, separators swapped or removed, and common
// extensions stripped.
func filenameVariations(filename string) map[string]bool {
	if v, ok := variationCache.Get(filename); ok {
		return v
	}
	lower := strings.ToLower(filename)
	v := map[string]bool{
		lower: true,
		strings.NewReplacer("_", "", "-", "").Replace(lower): true,
		strings.ReplaceAll(lower, "_", "-"):                  true,
		strings.ReplaceAll(lower, "-", "_"):                  true,
	}
	for _, ext := range strippableExtensions {
		if strings.HasSuffix(lower, ext) {
			v[strings.TrimSuffix(lower, ext)] = true
		}
	}
	variationCache.Add(filename, v)
	return v
}

// InferTargets resolves a fence info string against the known tree entries,
// returning candidate paths best first. An empty result means no plausible
// target; more than one means the caller must treat the info as ambiguous.
// Exact matches shadow partial ones; an info string with embedded whitespace
// ("python src/main.py") is retried token by token when whole-string
// matching fails.
func InferTargets(info string, entries []string) []string {
	if info == "" || len(entries) == 0 {
		return nil
	}
	clean := normalizeInfo(info)
	if clean == "" {
		return nil
	}

	if exact := exactInfoMatches(clean, entries); len(exact) > 0 {
		return filterTargets(exact)
	}
	if partial := partialInfoMatches(clean, entries); len(partial) > 0 {
		return filterTargets(partial)
	}
	if strings.Contains(clean, " ") {
		for _, part := range strings.Fields(clean) {
			if len(part) <= 2 {
				continue
			}
			if sub := InferTargets(part, entries); len(sub) > 0 {
				return sub
			}
		}
	}
	return nil
}

// exactInfoMatches returns entries whose basename or full path equals the
// normalized info string.
func exactInfoMatches(clean string, entries []string) []string {
	var out []string
	for _, e := range entries {
		if strings.ToLower(path.Base(e)) == clean || strings.ToLower(e) == clean {
			out = append(out, e)
		}
	}
	return out
}

// partialInfoMatches scores every entry against the info string and returns
// those that scored, best first. Substring hits on the basename outrank hits
// anywhere in the path; matching a known filename variation counts on top of
// either.
func partialInfoMatches(clean string, entries []string) []string {
	type scored struct {
		entry string
		score int
	}
	var kept []scored
	for _, e := range entries {
		base := strings.ToLower(path.Base(e))
		full := strings.ToLower(e)

		score := 0
		if strings.Contains(base, clean) {
			score += 3
			if strings.HasPrefix(base, clean) {
				score += 2
			}
			if strings.TrimSuffix(base, path.Ext(base)) == clean {
				score += 2
			}
		} else if strings.Contains(full, clean) {
			score++
			if hasAncestorNamed(e, clean) {
				score++
			}
		}
		if filenameVariations(path.Base(e))[clean] {
			score += 2
		}

		if score > 0 {
			kept = append(kept, scored{e, score})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	out := make([]string, len(kept))
	for i, s := range kept {
		out[i] = s.entry
	}
	return out
}

func hasAncestorNamed(entry, name string) bool {
	for dir := path.Dir(entry); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if strings.ToLower(path.Base(dir)) == name {
			return true
		}
	}
	return false
}

// filterTargets deduplicates candidates and, when several remain, drops
// extensionless ones, which usually name directories rather than files.
func filterTargets(candidates []string) []string {
	var out []string
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if len(candidates) > 1 && !hasExtension(c) {
			continue
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// hasExtension reports whether the basename carries a real extension. A bare
// dotfile (".gitignore") does not count.
func hasExtension(p string) bool {
	base := path.Base(p)
	ext := path.Ext(base)
	return ext != "" && ext != base
}
