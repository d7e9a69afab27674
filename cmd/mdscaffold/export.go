// cmd/mdscaffold/export.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianshen/mdscaffold/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		outputFlag      string
		ignoreFlag      []string
		concurrencyFlag int
		compareFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export a folder to a Markdown document",
		Long: `Walk a directory and write one Markdown document holding its file
structure fence and a fenced code block per file, the same shape the
generator consumes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ecfg := export.Config{
				Folder:      args[0],
				Output:      outputFlag,
				Ignore:      append(append([]string{}, cfg.Export.Ignore...), ignoreFlag...),
				Concurrency: concurrencyFlag,
				MaxDepth:    cfg.Export.MaxDepth,
				MaxFileSize: cfg.Export.MaxFileSize,
				Compare:     compareFlag,
			}
			if !cmd.Flags().Changed("concurrency") {
				ecfg.Concurrency = cfg.Export.Concurrency
			}

			res, err := export.Run(cmd.Context(), ecfg)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(os.Stderr, w)
			}
			fmt.Fprintf(os.Stderr, "mdscaffold: exported %d file(s) to %s\n", len(res.Files), res.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output Markdown file (default <dir>.md)")
	cmd.Flags().StringArrayVar(&ignoreFlag, "ignore", nil, "extra ignore patterns (repeatable)")
	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "parallel file reads (default 5)")
	cmd.Flags().BoolVar(&compareFlag, "compare", false, "verify the written Markdown against the exported files")

	return cmd
}
