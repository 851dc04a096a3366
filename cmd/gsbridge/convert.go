package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gamestringer/gsbridge/internal/bridge"
)

type convertOptions struct {
	source       string
	target       string
	csvSourceCol int
	csvTargetCol int
	debug        bool
}

func newConvertCmd() *cobra.Command {
	opts := convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <input.csv> <output.json>",
		Short: "Convert a CSV dictionary to the JSON format",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				_ = cmd.Usage()
				return fmt.Errorf("input and output files are required")
			}
			return runConvert(args[0], args[1], &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVar(&opts.source, "source", "en", "Source language code")
	cmd.Flags().StringVar(&opts.target, "target", "it", "Target language code")
	cmd.Flags().IntVar(&opts.csvSourceCol, "csv-source-col", 0, "CSV column holding the original text")
	cmd.Flags().IntVar(&opts.csvTargetCol, "csv-target-col", 1, "CSV column holding the translation")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	return cmd
}

func runConvert(inputPath, outputPath string, opts *convertOptions) error {
	if err := setupLogging(opts.debug, ""); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".csv" {
		return fmt.Errorf("input must be a .csv file, got %q", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(outputPath)); ext != ".json" {
		return fmt.Errorf("output must be a .json file, got %q", outputPath)
	}

	source, target, err := resolvePair(opts.source, opts.target)
	if err != nil {
		return err
	}

	b := bridge.New()
	b.SetActiveLanguages(source, target)
	count, err := b.LoadDictionaryFromCSV(inputPath, opts.csvSourceCol, opts.csvTargetCol)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no entries found in %s", inputPath)
	}
	return b.ExportToJSON(outputPath)
}
