package resolve

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Sentinel option values for the menu actions. NUL never survives path
// validation, so these cannot collide with a candidate path.
const (
	actionDiff  = "\x00diff"
	actionSkip  = "\x00skip"
	actionAbort = "\x00abort"
)

var (
	analysisHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#EEEEEE"}).
				Bold(true)
	analysisPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#66CCEE"})
)

// Interactive prompts the operator with a selection menu per conflict:
// every candidate path plus skip, abort, and a path breakdown that helps
// tell look-alike candidates apart.
type Interactive struct {
	// Out receives the candidate analysis. Defaults to os.Stdout.
	Out io.Writer
}

// Choose runs the menu until the operator picks a candidate, skips the
// block, or aborts. Aborting, whether through the menu entry or the form's
// own cancel key, returns ErrAborted.
func (in *Interactive) Choose(hint string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	out := in.Out
	if out == nil {
		out = os.Stdout
	}

	options := make([]huh.Option[string], 0, len(candidates)+3)
	for _, c := range candidates {
		options = append(options, huh.NewOption(c, c))
	}
	options = append(options,
		huh.NewOption("Show differences", actionDiff),
		huh.NewOption("Skip this block", actionSkip),
		huh.NewOption("Abort", actionAbort),
	)

	for {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Ambiguous hint '%s'", hint)).
				Description(fmt.Sprintf("%d files match; pick the target.", len(candidates))).
				Options(options...).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return "", ErrAborted
			}
			return "", err
		}

		switch choice {
		case actionDiff:
			fmt.Fprint(out, renderDifferences(candidates))
		case actionSkip:
			return "", nil
		case actionAbort:
			return "", ErrAborted
		default:
			return choice, nil
		}
	}
}

// renderDifferences breaks each candidate down by depth, directory,
// filename, and extension.
func renderDifferences(candidates []string) string {
	var b strings.Builder
	b.WriteString(analysisHeaderStyle.Render("Candidate analysis") + "\n")
	for i, c := range candidates {
		parts := strings.Split(c, "/")
		dir := strings.Join(parts[:len(parts)-1], "/")
		if dir == "" {
			dir = "(root)"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, analysisPathStyle.Render(c))
		fmt.Fprintf(&b, "   Depth: %d\n", len(parts))
		fmt.Fprintf(&b, "   Directory: %s\n", dir)
		fmt.Fprintf(&b, "   Filename: %s\n", parts[len(parts)-1])
		if ext := path.Ext(parts[len(parts)-1]); ext != "" {
			fmt.Fprintf(&b, "   Extension: %s\n", ext)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// IsTerminal reports whether stdin and stdout are both attached to a
// terminal, the precondition for prompting.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
