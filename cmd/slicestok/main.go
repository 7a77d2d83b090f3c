// Command slicestok trains SLICES BPE tokenizers, and uses them to encode and decode SLICES strings.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
