// cmd/mdscaffold/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/julianshen/mdscaffold/internal/config"
	"github.com/julianshen/mdscaffold/internal/generate"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath string
	logFile    string

	outputFlag  string
	dryFlag     bool
	previewFlag bool
	verboseFlag bool
	quietFlag   bool
	debugFlag   bool
	strictFlag  bool

	skipEmptyFlag    bool
	noOverwriteFlag  bool
	placeholdersFlag bool
	stripHintsFlag   bool

	jsonSummaryFlag string
	reportFlag      string

	ignoreFlag      []string
	filesAlwaysFlag []string
	dirsAlwaysFlag  []string
	setExecFlag     []string

	fallbackLevelFlag    string
	interactiveFlag      bool
	conflictStrategyFlag string

	incrementalFlag bool
	zipFlag         bool
	tarFlag         bool
)

func versionString() string {
	return fmt.Sprintf("mdscaffold %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdscaffold <input.md>",
		Short: "Generate a project scaffold from a Markdown plan",
		Long: `mdscaffold turns a Markdown document with a file-structure block and
fenced code blocks into a real directory tree, and can export a folder
back into the same Markdown shape.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append diagnostics to this file")

	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output directory (default from front matter, else output_folder)")
	rootCmd.Flags().BoolVar(&dryFlag, "dry", false, "plan the run without touching the filesystem")
	rootCmd.Flags().BoolVar(&previewFlag, "preview", false, "print the planned assignments and write nothing")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every file as it is written")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress progress and summary output")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "log pipeline internals")
	rootCmd.Flags().BoolVar(&strictFlag, "strict", false, "exit non-zero on warnings or unassigned blocks")
	rootCmd.Flags().BoolVar(&skipEmptyFlag, "skip-empty", false, "skip files the document never filled in")
	rootCmd.Flags().BoolVar(&noOverwriteFlag, "no-overwrite", false, "never replace existing files")
	rootCmd.Flags().BoolVar(&placeholdersFlag, "placeholders", true, "write placeholder stubs for empty files")
	rootCmd.Flags().BoolVar(&stripHintsFlag, "strip-hints", false, "drop first-line path hints from written files")
	rootCmd.Flags().StringVar(&jsonSummaryFlag, "json-summary", "", "write the run report as JSON to this path")
	rootCmd.Flags().StringVar(&reportFlag, "report", "", "write the run report as Markdown to this path")
	rootCmd.Flags().StringArrayVar(&ignoreFlag, "ignore", nil, "skip tree entries matching this glob (repeatable)")
	rootCmd.Flags().StringArrayVar(&filesAlwaysFlag, "files-always", nil, "treat this basename as a file (repeatable)")
	rootCmd.Flags().StringArrayVar(&dirsAlwaysFlag, "dirs-always", nil, "treat this basename as a directory (repeatable)")
	rootCmd.Flags().StringArrayVar(&setExecFlag, "set-exec", nil, "mark files matching this glob executable (repeatable)")
	rootCmd.Flags().StringVar(&fallbackLevelFlag, "fallback-level", "low", "rescue aggressiveness: low, medium, high")
	rootCmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false, "resolve ambiguous blocks with a prompt")
	rootCmd.Flags().StringVar(&conflictStrategyFlag, "conflict-strategy", "", "non-interactive conflict policy: first, longest, shortest, most_specific, skip")
	rootCmd.Flags().BoolVar(&incrementalFlag, "incremental", false, "skip files unchanged since the last run")
	rootCmd.Flags().BoolVar(&zipFlag, "zip", false, "archive the output directory as a .zip")
	rootCmd.Flags().BoolVar(&tarFlag, "tar", false, "archive the output directory as a .tar.gz")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(generate.ExitCode(err))
	}
}

// runGenerate builds the pipeline options from flags and the config file,
// then runs one generation.
func runGenerate(cmd *cobra.Command, input string) error {
	if err := setupLogging(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := generate.Options{
		Input:            input,
		Output:           outputFlag,
		Dry:              dryFlag,
		Preview:          previewFlag,
		Verbose:          verboseFlag,
		Quiet:            quietFlag,
		Debug:            debugFlag,
		Strict:           strictFlag,
		SkipEmpty:        skipEmptyFlag,
		NoOverwrite:      noOverwriteFlag,
		Placeholders:     placeholdersFlag,
		StripHints:       stripHintsFlag,
		Ignore:           ignoreFlag,
		FilesAlways:      filesAlwaysFlag,
		DirsAlways:       dirsAlwaysFlag,
		SetExec:          setExecFlag,
		FallbackLevel:    fallbackLevelFlag,
		Interactive:      interactiveFlag,
		ConflictStrategy: conflictStrategyFlag,
		Incremental:      incrementalFlag,
		Zip:              zipFlag,
		Tar:              tarFlag,
		JSONSummary:      jsonSummaryFlag,
		ReportPath:       reportFlag,
	}
	applyConfig(cmd.Flags(), cfg, &opts)

	_, err = generate.Run(cmd.Context(), opts)
	return err
}

// applyConfig fills in options the command line left unset. Flags always
// win over the file; the file wins over the document's front matter
// because it is merged here, before the document is loaded.
func applyConfig(flags *pflag.FlagSet, cfg *config.Config, opts *generate.Options) {
	gen := cfg.Generate

	if !flags.Changed("output") {
		opts.Output = gen.Output
	}
	if !flags.Changed("placeholders") {
		opts.Placeholders = gen.Placeholders
	}
	if !flags.Changed("strip-hints") {
		opts.StripHints = gen.StripHints
	}
	if !flags.Changed("skip-empty") {
		opts.SkipEmpty = gen.SkipEmpty
	}
	if !flags.Changed("no-overwrite") {
		opts.NoOverwrite = gen.NoOverwrite
	}
	if !flags.Changed("incremental") {
		opts.Incremental = gen.Incremental
	}
	if !flags.Changed("zip") {
		opts.Zip = gen.Zip
	}
	if !flags.Changed("tar") {
		opts.Tar = gen.Tar
	}
	if !flags.Changed("ignore") {
		opts.Ignore = gen.Ignore
	}
	if !flags.Changed("files-always") {
		opts.FilesAlways = gen.FilesAlways
	}
	if !flags.Changed("dirs-always") {
		opts.DirsAlways = gen.DirsAlways
	}
	if !flags.Changed("set-exec") {
		opts.SetExec = gen.SetExec
	}
	if !flags.Changed("fallback-level") {
		opts.FallbackLevel = gen.FallbackLevel
	}
	if !flags.Changed("conflict-strategy") {
		opts.ConflictStrategy = gen.ConflictStrategy
	}
	opts.PlaceholderOverrides = gen.PlaceholderStubs
}

// loadConfig resolves the config path and loads the file, falling back to
// defaults when it does not exist.
func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setupLogging points the stdlib logger at --log-file when given.
func setupLogging() error {
	if logFile == "" {
		return nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return nil
}
