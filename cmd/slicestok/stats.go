package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/example/go-slices-tokenizer/tokenizers/slicesbpe"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print statistics of the symbols of a tokenizer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			vocab, err := slicesbpe.Load(cfg.Model.Path)
			if err != nil {
				return err
			}
			printStats(cmd, vocab)
			return nil
		},
	}
}

func printStats(cmd *cobra.Command, vocab *slicesbpe.Vocabulary) {
	stats := vocab.Stats()
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "vocabulary size: %s (target %s)\n",
		humanize.Comma(int64(stats.Total)), humanize.Comma(int64(vocab.TargetSize())))
	_, _ = fmt.Fprintf(out, "base alphabet: %s\n", humanize.Comma(int64(stats.Alphabet)))
	_, _ = fmt.Fprintf(out, "merges: %s\n", humanize.Comma(int64(stats.Merges)))
	for _, class := range []slicesbpe.Class{
		slicesbpe.ClassSpecial, slicesbpe.ClassElement, slicesbpe.ClassNumber, slicesbpe.ClassBond, slicesbpe.ClassOther,
	} {
		_, _ = fmt.Fprintf(out, "%s tokens: %s\n", class, humanize.Comma(int64(stats.Count(class))))
	}
	if len(stats.SampleBonds) > 0 {
		_, _ = fmt.Fprintf(out, "sample bonds: %s\n", strings.Join(stats.SampleBonds, " "))
	}
}
