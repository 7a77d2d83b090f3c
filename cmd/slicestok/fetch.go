package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-slices-tokenizer/hub"
	"github.com/example/go-slices-tokenizer/tokenizers"
	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/example/go-slices-tokenizer/tokenizers/slicesbpe"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var install bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a tokenizer from a HuggingFace Hub repository (--hub-repo) into the local cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if cfg.Hub.Repo == "" {
				return api.Errorf(api.ErrInvalidConfig, "--hub-repo is required")
			}
			repo := hub.New(cfg.Hub.Repo).
				WithRevision(cfg.Hub.Revision).
				WithCacheDir(cfg.Hub.CacheDir).
				WithEndpoint(cfg.Hub.Endpoint).
				WithAuth(cfg.Hub.Token)
			repo.Verbosity = 0

			model, err := tokenizers.GetModel(repo, cfg.Hub.File)
			if err != nil {
				return err
			}
			tok, err := tokenizers.FromModel(model)
			if err != nil {
				return err
			}
			slog.Info("fetched tokenizer", "repo", cfg.Hub.Repo, "revision", cfg.Hub.Revision,
				"path", model.FilePath, "vocab_size", tok.VocabSize())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), model.FilePath)

			if install {
				vocab, err := slicesbpe.FromModel(model)
				if err != nil {
					return err
				}
				if err := vocab.Save(cfg.Model.Path); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "installed to %s\n", cfg.Model.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Also save the tokenizer to --model-path")
	return cmd
}
