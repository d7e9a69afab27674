// Package generate orchestrates one Markdown-to-scaffold run end to end:
// load, structure extraction, tree parsing, path screening, assignment,
// rescue, writing, the incremental store, and the final report.
package generate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/julianshen/mdscaffold/internal/assign"
	"github.com/julianshen/mdscaffold/internal/markdown"
	"github.com/julianshen/mdscaffold/internal/report"
	"github.com/julianshen/mdscaffold/internal/resolve"
	"github.com/julianshen/mdscaffold/internal/store"
	"github.com/julianshen/mdscaffold/internal/tree"
	"github.com/julianshen/mdscaffold/internal/writer"
)

// DefaultOutput is the output root used when neither the flag, the config
// file, nor the document's front matter names one.
const DefaultOutput = "output_folder"

// Options holds all generation configuration.
type Options struct {
	Input  string
	Output string

	Dry     bool
	Preview bool
	Verbose bool
	Quiet   bool
	Debug   bool
	Strict  bool

	SkipEmpty    bool
	NoOverwrite  bool
	Placeholders bool
	StripHints   bool

	Ignore      []string
	FilesAlways []string
	DirsAlways  []string
	SetExec     []string

	// PlaceholderOverrides maps extensions to custom placeholder stubs,
	// overlaid on the built-in table.
	PlaceholderOverrides map[string]string

	FallbackLevel    string
	Interactive      bool
	ConflictStrategy string

	Incremental bool
	Zip         bool
	Tar         bool

	JSONSummary string
	ReportPath  string
}

// Result bundles the run outcome for callers.
type Result struct {
	Report   *report.RunReport
	Entries  []string
	Assigned *assign.Result
	Written  *writer.Result
}

// Run executes the full generation pipeline: load -> structure -> parse ->
// screen -> assign -> rescue -> write -> store -> report.
func Run(ctx context.Context, opts Options) (*Result, error) {
	// Stage 1: Load
	progress(opts, "loading %s...", opts.Input)
	doc, err := markdown.LoadDocument(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	outRoot := opts.Output
	if outRoot == "" {
		outRoot = doc.Meta.Output
	}
	if outRoot == "" {
		outRoot = DefaultOutput
	}
	level := opts.FallbackLevel
	if level == "" {
		level = string(assign.FallbackLow)
	}
	filesAlways := tree.LowerSet(append(append([]string{}, opts.FilesAlways...), doc.Meta.FilesAlways...))
	dirsAlways := tree.LowerSet(append(append([]string{}, opts.DirsAlways...), doc.Meta.DirsAlways...))

	rep := report.New(opts.Input, outRoot)
	rep.DryRun = opts.Dry || opts.Preview

	// Stage 2: Structure block
	progress(opts, "parsing structure...")
	block := markdown.ExtractStructureBlock(doc.Source, doc.Tokens)
	if block == "" {
		rep.Add("⚠️ No structure block found, all content blocks will be unassigned")
	}

	// Stage 3: Tree entries
	var entries []string
	if block != "" {
		entries = tree.Parse(block, filesAlways, dirsAlways)
		if ok, warns := tree.Validate(entries); !ok {
			for _, w := range warns {
				rep.Add("⚠️ " + w)
			}
		}
	}
	if len(entries) == 0 && level == string(assign.FallbackHigh) {
		entries = entriesFromHeadings(doc.Tokens)
		if len(entries) > 0 {
			rep.Add("ℹ️ Fallback: generated structure from headings")
		}
	}

	// Stage 4: Path safety screen
	safe := entries[:0]
	for _, entry := range entries {
		if err := tree.ValidateEntryPath(entry, false); err != nil {
			rep.Add(fmt.Sprintf("❌ Skipping unsafe entry '%s': %v", entry, err))
			continue
		}
		safe = append(safe, entry)
	}
	entries = safe
	if opts.Debug {
		log.Printf("[debug] %d tree entries after screening", len(entries))
	}

	// Stage 5: Assign
	progress(opts, "assigning content blocks...")
	assigned := assign.Map(doc.Tokens, entries, assign.Options{
		FilesAlways: filesAlways,
		DirsAlways:  dirsAlways,
		StripHints:  opts.StripHints,
	})

	// Stage 6: Rescue
	if err := assign.Rescue(assigned, assign.RescueOptions{
		StripHints: opts.StripHints,
		Fallback:   assign.FallbackLevel(level),
		Chooser:    chooser(opts, rep),
	}); err != nil {
		return nil, fmt.Errorf("rescue: %w", err)
	}
	rep.Add(assigned.Warnings...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 7: Write
	dry := opts.Dry || opts.Preview
	progress(opts, "writing to %s...", outRoot)
	wopts := writer.Options{
		OutRoot:      outRoot,
		DryRun:       dry,
		Verbose:      opts.Verbose,
		SkipEmpty:    opts.SkipEmpty,
		Placeholders: opts.Placeholders,
		NoOverwrite:  opts.NoOverwrite,
		Ignore:       opts.Ignore,
		FilesAlways:  filesAlways,
		DirsAlways:   dirsAlways,
	}
	if len(opts.PlaceholderOverrides) > 0 {
		wopts.Placeholder = overlayPlaceholders(opts.PlaceholderOverrides)
	}

	st := openStore(opts, dry, outRoot, rep)
	if st != nil {
		defer st.Close()
		wopts.ShouldWrite = func(target, content string) bool {
			ok, err := st.ShouldWrite(target, content)
			if err != nil {
				return true
			}
			if !ok {
				rep.SkippedFiles = append(rep.SkippedFiles, target)
			}
			return ok
		}
		wopts.OnWrite = func(target, content string) {
			if err := st.RecordWrite(target, content); err != nil {
				rep.Add(fmt.Sprintf("⚠️ Failed to record %s in store: %v", target, err))
			}
		}
	}

	written := writer.Write(entries, assigned, wopts)
	rep.Add(written.Warnings...)

	if len(assigned.Unassigned) > 0 && !dry {
		n, warns := writer.Spill(outRoot, assigned.Unassigned)
		rep.Add(warns...)
		progress(opts, "spilled %d unassigned block(s)", n)
	}
	if len(opts.SetExec) > 0 && !dry {
		n, warns := writer.SetExecGlobs(outRoot, opts.SetExec)
		rep.Add(warns...)
		progress(opts, "marked %d file(s) executable", n)
	}
	if !dry && opts.Zip {
		if err := writer.ArchiveZip(outRoot); err != nil {
			rep.Add(fmt.Sprintf("⚠️ Failed to create zip archive: %v", err))
		}
	}
	if !dry && opts.Tar {
		if err := writer.ArchiveTar(outRoot); err != nil {
			rep.Add(fmt.Sprintf("⚠️ Failed to create tar.gz archive: %v", err))
		}
	}

	// Stage 8: Store bookkeeping
	if st != nil {
		if _, err := st.Prune(written.CreatedFiles); err != nil {
			rep.Add(fmt.Sprintf("⚠️ Failed to prune store: %v", err))
		}
	}

	// Stage 9: Report
	rep.FilesInTree = len(assigned.Files)
	rep.FilesCreated = len(written.CreatedFiles)
	rep.DirsCreated = len(written.CreatedDirs)
	rep.FilesWritten = written.FilesWritten
	rep.PlaceholdersCreated = written.Placeholders
	rep.LinesWritten = written.LinesWritten
	rep.UnassignedBlocks = len(assigned.Unassigned)
	rep.WrittenFiles = written.CreatedFiles
	rep.Finish()

	if st != nil {
		if err := st.RecordRun(store.Run{ID: rep.ID, FilesWritten: rep.FilesWritten, Warnings: rep.IssueCount()}); err != nil {
			rep.Add(fmt.Sprintf("⚠️ Failed to record run: %v", err))
		}
	}

	if opts.JSONSummary != "" {
		if err := report.WriteFile(report.NewJSONFormatter(), rep, opts.JSONSummary); err != nil {
			rep.Add(fmt.Sprintf("❌ Failed to write JSON summary: %v", err))
		}
	}
	if opts.ReportPath != "" {
		if err := report.WriteFile(report.NewMarkdownFormatter(), rep, opts.ReportPath); err != nil {
			rep.Add(fmt.Sprintf("❌ Failed to write report: %v", err))
		}
	}
	if opts.Preview {
		fmt.Fprint(os.Stdout, renderPreview(previewPlan(entries, assigned, filesAlways, dirsAlways)))
	}
	if !opts.Quiet {
		fmt.Fprintln(os.Stderr, report.Summary(rep))
	}

	res := &Result{Report: rep, Entries: entries, Assigned: assigned, Written: written}
	if opts.Strict {
		if code := rep.StrictCode(); code != 0 {
			return res, &ExitError{Code: code, Err: fmt.Errorf("strict mode: %d issue(s) found", rep.IssueCount())}
		}
	}
	return res, nil
}

func progress(opts Options, format string, args ...any) {
	if opts.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "mdscaffold: "+format+"\n", args...)
}

// chooser picks the conflict resolver for this run. Interactive mode needs
// a TTY; without one it degrades to the batch strategy with a warning.
func chooser(opts Options, rep *report.RunReport) assign.Chooser {
	if opts.Interactive {
		if resolve.IsTerminal() {
			return &resolve.Interactive{}
		}
		rep.Add("⚠️ Interactive mode requires a terminal, falling back to batch resolution")
	}
	if opts.ConflictStrategy != "" {
		return resolve.Batch{Strategy: resolve.Strategy(opts.ConflictStrategy)}
	}
	if opts.Interactive {
		return resolve.Batch{}
	}
	return nil
}

// entriesFromHeadings synthesizes tree entries from heading texts, the
// last-resort structure source at high fallback.
func entriesFromHeadings(tokens []markdown.Token) []string {
	var entries []string
	for _, tok := range tokens {
		if tok.Kind != markdown.KindHeading {
			continue
		}
		if p := tree.Normalize(tok.Text); p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

// openStore opens the incremental store under the output root. Store
// problems degrade to warnings; a run never fails because the cache is
// unavailable.
func openStore(opts Options, dry bool, outRoot string, rep *report.RunReport) *store.Store {
	if !opts.Incremental || dry {
		return nil
	}
	if err := os.MkdirAll(outRoot, 0o755); err != nil {
		rep.Add(fmt.Sprintf("⚠️ Incremental store unavailable: %v", err))
		return nil
	}
	st, err := store.Open(filepath.Join(outRoot, store.DefaultName))
	if err != nil {
		rep.Add(fmt.Sprintf("⚠️ Incremental store unavailable: %v", err))
		return nil
	}
	return st
}

// overlayPlaceholders merges user stub overrides onto the built-in table.
// Extension keys may be given with or without the leading dot.
func overlayPlaceholders(overrides map[string]string) writer.PlaceholderConfig {
	pc := writer.DefaultPlaceholders()
	for ext, stub := range overrides {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		pc.ByExtension[ext] = stub
	}
	return pc
}

// previewPlan renders the planned assignments as Markdown.
func previewPlan(entries []string, assigned *assign.Result, filesAlways, dirsAlways map[string]bool) string {
	var b strings.Builder
	b.WriteString("# Planned Assignments\n\n")
	for _, entry := range entries {
		if !tree.IsFile(path.Base(entry), filesAlways, dirsAlways) {
			b.WriteString(fmt.Sprintf("- `%s/`\n", entry))
			continue
		}
		if blocks := assigned.CodeMap[entry]; len(blocks) > 0 {
			b.WriteString(fmt.Sprintf("- `%s` (%d block(s))\n", entry, len(blocks)))
		} else {
			b.WriteString(fmt.Sprintf("- `%s` (placeholder)\n", entry))
		}
	}
	if n := len(assigned.Unassigned); n > 0 {
		b.WriteString(fmt.Sprintf("\nUnassigned blocks: %d\n", n))
	} else {
		b.WriteString("\nNo unassigned blocks.\n")
	}
	return b.String()
}

// renderPreview styles the preview for the terminal, falling back to the
// raw Markdown when the renderer cannot be built.
func renderPreview(md string) string {
	tr, err := report.NewTermRenderer(100)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return out
}
