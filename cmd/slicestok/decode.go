package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode ID...",
		Short: "Decode token ids back into a SLICES string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for ii, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return errors.Errorf("invalid id %q: ids are integers", arg)
				}
				ids[ii] = id
			}
			tok, err := loadTokenizer()
			if err != nil {
				return err
			}
			text, err := tok.Decode(ids)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
