package assign

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// similarThreshold is the ratio at which two path-like strings are treated
// as naming the same file.
const similarThreshold = 0.8

type hintPair struct {
	a, b string
}

// The same pair recurs constantly during a run (every merge check compares a
// block's first line against the same target path), so verdicts are memoized.
var similarCache, _ = lru.New[hintPair, bool](100)

// hintsSimilar reports whether two hints are close enough to be treated as
// naming the same file. Comparison is case-insensitive.
func hintsSimilar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	key := hintPair{strings.ToLower(a), strings.ToLower(b)}
	if v, ok := similarCache.Get(key); ok {
		return v
	}
	v := sequenceRatio(key.a, key.b) >= similarThreshold
	similarCache.Add(key, v)
	return v
}

// sequenceRatio scores two strings as twice the matched character count over
// the total length. Unlike an edit-distance ratio over the longer string,
// this keeps a bare basename similar to its directory-qualified form
// ("utils.py" vs "src/utils.py" scores 0.8, not 0.67), which the hint
// replacement policy depends on.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(total)
}

// levenshteinRatio is the edit-distance similarity used for fuzzy candidate
// search, where the compared strings are whole paths of comparable length.
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
}

// closeMatches returns up to n candidates whose similarity to word meets the
// cutoff, best first. Ties keep the candidates' original order.
func closeMatches(word string, candidates []string, n int, cutoff float64) []string {
	type scored struct {
		value string
		ratio float64
	}
	var kept []scored
	for _, c := range candidates {
		if r := levenshteinRatio(word, c); r >= cutoff {
			kept = append(kept, scored{c, r})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].ratio > kept[j].ratio })
	if len(kept) > n {
		kept = kept[:n]
	}
	out := make([]string, len(kept))
	for i, s := range kept {
		out[i] = s.value
	}
	return out
}

// pathSpecificity counts path segments; deeper paths are more specific.
func pathSpecificity(p string) int {
	n := 0
	for _, seg := range strings.Split(p, "/") {
		if seg != "" && seg != "." {
			n++
		}
	}
	return n
}
