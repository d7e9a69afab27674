package assign

import (
	"path"
	"strings"
)

// FallbackLevel controls how aggressively the rescue pass matches blocks.
type FallbackLevel string

const (
	// FallbackLow allows exact and suffix matches only.
	FallbackLow FallbackLevel = "low"
	// FallbackMedium adds substring and fuzzy matching.
	FallbackMedium FallbackLevel = "medium"
	// FallbackHigh adds last-resort auto-assignment heuristics.
	FallbackHigh FallbackLevel = "high"
)

// rescueFuzzyCutoff is the similarity floor for fuzzy candidate search
// during rescue, looser than the primary pass since these blocks already
// failed the strict strategies.
const rescueFuzzyCutoff = 0.7

// rescueFuzzyLimit bounds how many fuzzy candidates are considered.
const rescueFuzzyLimit = 3

// Chooser resolves an ambiguous hint to one of the candidate paths. An
// empty choice means skip the block; an error aborts the run.
type Chooser interface {
	Choose(hint string, candidates []string) (string, error)
}

// RescueOptions configures the rescue pass.
type RescueOptions struct {
	StripHints bool
	Fallback   FallbackLevel

	// Chooser, when set, is consulted on ambiguous matches. When nil,
	// ambiguous blocks stay unassigned with a warning.
	Chooser Chooser
}

// Rescue makes a second pass over the unassigned blocks, retrying hint,
// assumed-heading, and heading-map matching at the configured fallback
// level. It mutates res in place: rescued blocks move into CodeMap and the
// rest stay in Unassigned, so the unassigned list never grows. The only
// error is an abort from the Chooser.
func Rescue(res *Result, opts RescueOptions) error {
	if len(res.Unassigned) == 0 {
		res.warnf("ℹ️ No unassigned blocks to rescue")
		return nil
	}
	if len(res.Files) == 0 {
		res.warnf("⚠️ No code map available for rescue attempts")
		return nil
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackHigh
	}

	r := &rescuer{Result: res, opts: opts}
	var still []string
	for _, code := range res.Unassigned {
		if strings.TrimSpace(code) == "" {
			res.warnf("⚠️ Skipped empty code block")
			continue
		}
		rescued, err := r.rescueBlock(code)
		if err != nil {
			return err
		}
		if !rescued {
			still = append(still, code)
		}
	}
	res.Unassigned = still
	return nil
}

type rescuer struct {
	*Result
	opts RescueOptions
}

func (r *rescuer) permissive() bool {
	return r.opts.Fallback == FallbackMedium || r.opts.Fallback == FallbackHigh
}

// rescueBlock runs the escalation ladder for one block. A panic is recorded
// as a warning and the block stays unassigned.
func (r *rescuer) rescueBlock(code string) (rescued bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.warnf("⚠️ Error processing code block: %v", p)
			rescued, err = false, nil
		}
	}()

	if hint, line := rescueHint(code); hint != "" {
		candidates := r.matchHint(hint)
		switch {
		case len(candidates) == 1:
			if r.placeWithHint(code, hint, line, candidates[0]) {
				return true, nil
			}
		case len(candidates) > 1:
			if r.opts.Chooser == nil {
				r.warnf("⚠️ Ambiguous hint '%s' matches %s; kept unassigned", hint, strings.Join(candidates, ", "))
				return false, nil
			}
			selected, err := r.opts.Chooser.Choose(hint, candidates)
			if err != nil {
				return false, err
			}
			if selected != "" && r.placeWithHint(code, hint, line, selected) {
				return true, nil
			}
		default:
			r.warnf("⚠️ Hint '%s' did not match any file", hint)
			if r.opts.Fallback == FallbackHigh && r.placeByBasename(code, hint, line) {
				return true, nil
			}
			return false, nil
		}
	}

	// The block carries no usable hint; try its literal first line as an
	// assumed heading.
	if r.permissive() {
		if lines := splitLines(code); len(lines) > 0 {
			assumed := cleanHintPath(lines[0])
			candidates := r.matchHint(assumed)
			switch {
			case len(candidates) == 1:
				if r.placeAssumed(code, assumed, candidates[0]) {
					return true, nil
				}
			case len(candidates) > 1 && r.opts.Chooser != nil:
				selected, err := r.opts.Chooser.Choose(assumed, candidates)
				if err != nil {
					return false, err
				}
				if selected != "" && r.placeSelected(code, selected) {
					return true, nil
				}
			}
		}
	}

	if r.permissive() && r.placeByHeading(code) {
		return true, nil
	}

	if r.opts.Fallback == FallbackHigh {
		for _, f := range r.Files {
			if len(r.CodeMap[f]) == 0 {
				r.CodeMap[f] = append(r.CodeMap[f], code)
				r.warnf("ℹ️ Auto-assigned block to %s (fallback assignment)", f)
				return true, nil
			}
		}
	}

	return false, nil
}

// matchHint finds files matching a hint: exact path, then suffix, then, at
// permissive levels, substring and fuzzy search.
func (r *rescuer) matchHint(hint string) []string {
	if _, ok := r.CodeMap[hint]; ok {
		return []string{hint}
	}

	var out []string
	for _, f := range r.Files {
		if strings.HasSuffix(f, hint) {
			out = append(out, f)
		}
	}
	if len(out) > 0 {
		return out
	}

	if r.permissive() {
		for _, f := range r.Files {
			if strings.Contains(f, hint) {
				out = append(out, f)
			}
		}
		if len(out) > 0 {
			return out
		}
		if matches := closeMatches(hint, r.Files, rescueFuzzyLimit, rescueFuzzyCutoff); len(matches) > 0 {
			return matches
		}
	}
	return nil
}

// placeWithHint assigns a hint-bearing block to target, applying the hint
// replacement policy with the hint's known line position.
func (r *rescuer) placeWithHint(code, hint string, hintLine int, target string) bool {
	body := code
	switch {
	case hint != "" && hintsSimilar(hint, target):
		if pathSpecificity(hint) < pathSpecificity(target) {
			if r.opts.StripHints {
				body = dropLine(code, hintLine)
			} else {
				body = FormatHint(target) + "\n" + dropLine(code, hintLine)
			}
			r.warnf("ℹ️ Replaced hint '%s' with '%s' (more specific)", hint, target)
		}
	case r.opts.StripHints && hintLine >= 0:
		body = dropLine(code, hintLine)
	}
	if body == "" {
		return false
	}
	r.appendBlock(target, body)
	r.warnf("ℹ️ Rescued block → assigned to %s (from hint '%s')", target, hint)
	return true
}

// placeByBasename is the high-fallback path for hints that matched nothing:
// assign when the hint's basename names exactly one file.
func (r *rescuer) placeByBasename(code, hint string, hintLine int) bool {
	base := path.Base(hint)
	var matches []string
	for _, f := range r.Files {
		if path.Base(f) == base {
			matches = append(matches, f)
		}
	}
	if len(matches) != 1 {
		return false
	}

	body := code
	if r.opts.StripHints && hintLine >= 0 {
		body = dropLine(code, hintLine)
	}
	if body == "" {
		return false
	}
	r.appendBlock(matches[0], body)
	r.warnf("ℹ️ Auto-assigned block to %s (basename match for hint '%s')", matches[0], hint)
	return true
}

// placeAssumed assigns a block whose first line resolved as a heading.
func (r *rescuer) placeAssumed(code, assumed, target string) bool {
	body := code
	if r.opts.StripHints {
		body = dropFirstLine(code)
	}
	if body == "" {
		return false
	}
	r.appendBlock(target, body)
	r.warnf("ℹ️ Rescued block → assigned to %s (from assumed heading '%s')", target, assumed)
	return true
}

// placeSelected assigns a block to an interactively chosen target.
func (r *rescuer) placeSelected(code, target string) bool {
	body := code
	if r.opts.StripHints {
		body = dropFirstLine(code)
	}
	if body == "" {
		return false
	}
	r.CodeMap[target] = append(r.CodeMap[target], body)
	r.warnf("ℹ️ Rescued block → assigned to %s (interactive selection)", target)
	return true
}

// placeByHeading matches the block's first line against headings recorded
// during the primary pass.
func (r *rescuer) placeByHeading(code string) bool {
	lines := splitLines(code)
	if len(lines) == 0 {
		return false
	}
	first := strings.TrimSpace(lines[0])

	for _, target := range r.Files {
		heading, ok := r.HeadingMap[target]
		if !ok {
			continue
		}
		clean := cleanHintPath(heading)
		if !strings.HasPrefix(first, heading) && !strings.Contains(first, clean) {
			continue
		}
		body := code
		if r.opts.StripHints {
			body = dropFirstLine(code)
		}
		if body == "" {
			continue
		}
		r.appendBlock(target, body)
		r.warnf("ℹ️ Rescued block → assigned to %s (from heading '%s')", target, heading)
		return true
	}
	return false
}
