package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamestringer/gsbridge/internal/bridge"
)

type loadOptions struct {
	source       string
	target       string
	csvSourceCol int
	csvTargetCol int
	debug        bool
}

func newLoadCmd() *cobra.Command {
	opts := loadOptions{}
	cmd := &cobra.Command{
		Use:   "load <dictionary>...",
		Short: "Validate dictionary files and report entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return fmt.Errorf("at least one dictionary file is required")
			}
			return runLoad(cmd, args, &opts)
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

func runLoad(cmd *cobra.Command, args []string, opts *loadOptions) error {
	if err := setupLogging(opts.debug, ""); err != nil {
		return err
	}
	source, target, err := resolvePair(opts.source, opts.target)
	if err != nil {
		return err
	}

	b := bridge.New()
	b.SetActiveLanguages(source, target)
	total, err := loadDictionaryFiles(b, args, opts.csvSourceCol, opts.csvTargetCol)
	if err != nil {
		return err
	}

	stats := b.EngineStats()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %d entries from %d file(s)\n", total, len(args))
	fmt.Fprintf(out, "Distinct entries for %s_%s: %d\n", source, target, stats.TotalEntries)
	return nil
}
