package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gamestringer/gsbridge/internal/bridge"
)

type exportOptions struct {
	source       string
	target       string
	dicts        []string
	csvSourceCol int
	csvTargetCol int
	debug        bool
}

func newExportCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <output.json>",
		Short: "Merge dictionaries and export them as a single JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Usage()
				return fmt.Errorf("exactly one output file is required")
			}
			return runExport(args[0], &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addDictionaryFlags(cmd, &opts.source, &opts.target, &opts.dicts, &opts.csvSourceCol, &opts.csvTargetCol)
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	return cmd
}

func runExport(outputPath string, opts *exportOptions) error {
	if err := setupLogging(opts.debug, ""); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(outputPath)); ext != ".json" {
		return fmt.Errorf("output must be a .json file, got %q", outputPath)
	}
	if len(opts.dicts) == 0 {
		return fmt.Errorf("at least one --dict file is required")
	}

	source, target, err := resolvePair(opts.source, opts.target)
	if err != nil {
		return err
	}

	b := bridge.New()
	b.SetActiveLanguages(source, target)
	if _, err := loadDictionaryFiles(b, opts.dicts, opts.csvSourceCol, opts.csvTargetCol); err != nil {
		return err
	}
	return b.ExportToJSON(outputPath)
}
