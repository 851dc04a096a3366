package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamestringer/gsbridge/internal/bridge"
	"github.com/gamestringer/gsbridge/internal/language"
)

type translateOptions struct {
	source       string
	target       string
	dicts        []string
	csvSourceCol int
	csvTargetCol int
	logFilePath  string
	debug        bool
}

func newTranslateCmd() *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <text>...",
		Short: "Look up strings against loaded dictionaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return fmt.Errorf("at least one text argument is required")
			}
			return runTranslate(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addDictionaryFlags(cmd, &opts.source, &opts.target, &opts.dicts, &opts.csvSourceCol, &opts.csvTargetCol)
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	return cmd
}

func addDictionaryFlags(cmd *cobra.Command, source, target *string, dicts *[]string, sourceCol, targetCol *int) {
	cmd.Flags().StringVar(source, "source", "en", "Source language code")
	cmd.Flags().StringVar(target, "target", "it", "Target language code")
	cmd.Flags().StringArrayVar(dicts, "dict", nil, "Dictionary file to load (.json or .csv, repeatable)")
	cmd.Flags().IntVar(sourceCol, "csv-source-col", 0, "CSV column holding the original text")
	cmd.Flags().IntVar(targetCol, "csv-target-col", 1, "CSV column holding the translation")
}

func runTranslate(cmd *cobra.Command, args []string, opts *translateOptions) error {
	if err := setupLogging(opts.debug, opts.logFilePath); err != nil {
		return err
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
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	out := cmd.OutOrStdout()
	misses := 0
	for _, text := range args {
		translated, found := b.Translate(text)
		if found {
			fmt.Fprintf(out, "%s\t%s\n", text, translated)
		} else {
			fmt.Fprintf(out, "%s\t(no translation)\n", text)
			misses++
		}
	}
	if misses > 0 {
		return fmt.Errorf("%d of %d strings had no translation for %s",
			misses, len(args), language.PairKey(source, target))
	}
	return nil
}
