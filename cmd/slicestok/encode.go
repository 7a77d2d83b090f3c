package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/go-slices-tokenizer/tokenizers"
	"github.com/spf13/cobra"
)

func loadTokenizer() (tokenizers.Tokenizer, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	return tokenizers.Load(cfg.Model.Path)
}

func newEncodeCmd() *cobra.Command {
	var showOffsets bool

	cmd := &cobra.Command{
		Use:   "encode TEXT...",
		Short: "Encode a SLICES string (the arguments joined by spaces) into tokens and ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := loadTokenizer()
			if err != nil {
				return err
			}
			enc, encErr := tok.Encode(strings.Join(args, " "))
			if enc == nil {
				return encErr
			}

			out := cmd.OutOrStdout()
			ids := make([]string, len(enc.IDs))
			for ii, id := range enc.IDs {
				ids[ii] = strconv.Itoa(id)
			}
			_, _ = fmt.Fprintf(out, "tokens: %s\n", strings.Join(enc.Tokens, " "))
			_, _ = fmt.Fprintf(out, "ids: %s\n", strings.Join(ids, " "))
			if showOffsets {
				spans := make([]string, len(enc.Offsets))
				for ii, span := range enc.Offsets {
					spans[ii] = fmt.Sprintf("%d:%d", span.Start, span.End)
				}
				_, _ = fmt.Fprintf(out, "offsets: %s\n", strings.Join(spans, " "))
			}
			// Unresolved symbols are printed with id -1, and fail the command.
			return encErr
		},
	}

	cmd.Flags().BoolVar(&showOffsets, "offsets", false, "Also print the byte offsets of each token")
	return cmd
}
