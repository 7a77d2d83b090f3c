package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/example/go-slices-tokenizer/tokenizers/slicesbpe"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newTrainCmd() *cobra.Command {
	var corpusPath string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a tokenizer on a corpus with one SLICES string per line, and save it to --model-path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if corpusPath == "" {
				return api.Errorf(api.ErrInvalidConfig, "--corpus is required")
			}

			corpus, err := slicesbpe.OpenCorpus(corpusPath)
			if err != nil {
				return err
			}
			defer func() { _ = corpus.Close() }()

			options := []slicesbpe.Option{slicesbpe.WithSpecialTokens(cfg.Train.SpecialTokens...)}
			if cfg.Train.Progress {
				bar := progressbar.Default(-1, "reading corpus")
				defer func() { _ = bar.Finish() }()
				options = append(options, slicesbpe.WithProgress(func(count int) {
					_ = bar.Set(count)
				}))
			}
			trainer, err := slicesbpe.NewTrainer(cfg.Train.VocabSize, options...)
			if err != nil {
				return err
			}
			vocab := trainer.Train(corpus.Lines())
			if err := corpus.Err(); err != nil {
				return errors.WithMessagef(err, "training aborted")
			}

			if err := vocab.Save(cfg.Model.Path); err != nil {
				return err
			}
			slog.Info("saved SLICES tokenizer", "path", cfg.Model.Path)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "trained %d symbols (%d merges), saved to %s\n",
				vocab.Size(), vocab.NumMerges(), cfg.Model.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Text file with one SLICES string per line")
	return cmd
}
