// internal/report/formatter.go
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunReport holds the collected outcome of one generation run.
type RunReport struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	OutputDir string    `json:"output_dir"`
	StartedAt time.Time `json:"started_at"`
	DryRun    bool      `json:"dry_run,omitempty"`

	FilesInTree         int `json:"files_in_tree"`
	FilesCreated        int `json:"files_created"`
	DirsCreated         int `json:"dirs_created"`
	FilesWritten        int `json:"files_written"`
	PlaceholdersCreated int `json:"placeholders_created"`
	LinesWritten        int `json:"lines_written"`
	UnassignedBlocks    int `json:"unassigned_blocks"`

	WrittenFiles []string `json:"written_files,omitempty"`
	SkippedFiles []string `json:"skipped_files,omitempty"`

	Infos    []string `json:"infos,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`

	DurationMs int64 `json:"duration_ms"`
}

// New mints a report with a fresh run id.
func New(input, outputDir string) *RunReport {
	return &RunReport{
		ID:        uuid.New().String(),
		Input:     input,
		OutputDir: outputDir,
		StartedAt: time.Now(),
	}
}

// Add buckets raw warning strings by their severity glyph: ❌ lines are
// errors, ℹ️ lines are informational, everything else is a warning.
func (r *RunReport) Add(warnings ...string) {
	for _, w := range warnings {
		switch {
		case strings.HasPrefix(w, "❌"):
			r.Errors = append(r.Errors, w)
		case strings.HasPrefix(w, "ℹ️"):
			r.Infos = append(r.Infos, w)
		default:
			r.Warnings = append(r.Warnings, w)
		}
	}
}

// Finish stamps the elapsed time since New.
func (r *RunReport) Finish() {
	r.DurationMs = time.Since(r.StartedAt).Milliseconds()
}

// IssueCount is the number of non-informational problems.
func (r *RunReport) IssueCount() int {
	return len(r.Warnings) + len(r.Errors)
}

// StrictCode maps the report to a strict-mode exit code: any error is 1,
// any warning or unassigned block is 2, a clean run is 0.
func (r *RunReport) StrictCode() int {
	switch {
	case len(r.Errors) > 0:
		return 1
	case len(r.Warnings) > 0 || r.UnassignedBlocks > 0:
		return 2
	default:
		return 0
	}
}

// Formatter renders a RunReport into output bytes.
type Formatter interface {
	Format(r *RunReport) ([]byte, error)
}

// WriteFile renders the report with f and writes it to path.
func WriteFile(f Formatter, r *RunReport, path string) error {
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("format report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
