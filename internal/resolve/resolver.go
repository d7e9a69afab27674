// Package resolve picks one target out of an ambiguous candidate set,
// either by a fixed batch strategy or by prompting the operator. Both
// implementations satisfy the chooser contract of the assignment rescue
// pass: an empty choice skips the block, an error aborts the run.
package resolve

import (
	"errors"
	"log"
	"strings"
)

// ErrAborted is returned when the operator aborts the run from the
// conflict menu.
var ErrAborted = errors.New("conflict resolution aborted")

// Strategy names a non-interactive resolution policy.
type Strategy string

const (
	// StrategyFirst keeps the first candidate in tree order.
	StrategyFirst Strategy = "first"
	// StrategyLongest keeps the candidate with the longest path string.
	StrategyLongest Strategy = "longest"
	// StrategyShortest keeps the candidate with the shortest path string.
	StrategyShortest Strategy = "shortest"
	// StrategyMostSpecific keeps the candidate with the most path segments.
	StrategyMostSpecific Strategy = "most_specific"
	// StrategySkip leaves the block unassigned.
	StrategySkip Strategy = "skip"
)

// Strategies lists the accepted batch strategy names.
func Strategies() []string {
	return []string{
		string(StrategyFirst),
		string(StrategyLongest),
		string(StrategyShortest),
		string(StrategyMostSpecific),
		string(StrategySkip),
	}
}

// Batch resolves conflicts with a fixed strategy and no prompting.
type Batch struct {
	Strategy Strategy
}

// Choose applies the configured strategy. An empty or unknown strategy
// falls back to first. Ties keep the earliest candidate. Choose never
// returns an error.
func (b Batch) Choose(hint string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	switch b.Strategy {
	case StrategyFirst, "":
		return candidates[0], nil
	case StrategyLongest:
		return pickFirst(candidates, func(c, best string) bool {
			return len(c) > len(best)
		}), nil
	case StrategyShortest:
		return pickFirst(candidates, func(c, best string) bool {
			return len(c) < len(best)
		}), nil
	case StrategyMostSpecific:
		return pickFirst(candidates, func(c, best string) bool {
			return len(strings.Split(c, "/")) > len(strings.Split(best, "/"))
		}), nil
	case StrategySkip:
		return "", nil
	default:
		log.Printf("unknown conflict strategy %q for hint %q, using %q", b.Strategy, hint, StrategyFirst)
		return candidates[0], nil
	}
}

func pickFirst(candidates []string, better func(c, best string) bool) string {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}
