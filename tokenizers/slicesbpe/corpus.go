package slicesbpe

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/example/go-slices-tokenizer/internal/files"
	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/pkg/errors"
)

// maxCorpusLine is the longest line accepted in a corpus file.
const maxCorpusLine = 16 << 20

// Corpus reads SLICES strings from a text source, one per line. Empty lines are skipped.
//
// It can be iterated only once. Read errors stop the iteration and are reported by Err.
type Corpus struct {
	scanner *bufio.Scanner
	closer  io.Closer
	name    string
	err     error
}

// ReadCorpus creates a Corpus reading lines from r.
func ReadCorpus(r io.Reader) *Corpus {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCorpusLine)
	return &Corpus{scanner: scanner, name: "reader"}
}

// OpenCorpus opens the corpus file filePath. The Corpus must be closed after use.
func OpenCorpus(filePath string) (*Corpus, error) {
	expanded, err := files.ExpandPath(filePath)
	if err != nil {
		return nil, api.WithKind(api.ErrIOFailure, err)
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, api.WithKind(api.ErrIOFailure, errors.Wrapf(err, "failed to open corpus %q", filePath))
	}
	c := ReadCorpus(f)
	c.closer = f
	c.name = filePath
	return c, nil
}

// Lines yields the non-empty lines of the corpus. Trailing carriage returns are removed.
func (c *Corpus) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for c.scanner.Scan() {
			line := strings.TrimRight(c.scanner.Text(), "\r")
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
		if err := c.scanner.Err(); err != nil {
			c.err = api.WithKind(api.ErrIOFailure, errors.Wrapf(err, "failed reading corpus %q", c.name))
		}
	}
}

// Err returns the error that stopped the iteration, if any.
func (c *Corpus) Err() error {
	return c.err
}

// Close the underlying file, if the Corpus was created with OpenCorpus.
func (c *Corpus) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
