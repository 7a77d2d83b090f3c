package slicesbpe

import (
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/example/go-slices-tokenizer/tokenizers/api"
)

// ProgressFn is called synchronously after each corpus item is consumed, with the number of items
// consumed so far. It only observes the training: it receives no access to the trainer state.
type ProgressFn func(count int)

// Trainer learns a Vocabulary from a corpus of SLICES strings with byte-pair-encoding over characters.
//
// Create it with NewTrainer. A Trainer holds only configuration, so it can be reused: each call to
// Train produces an entirely new Vocabulary.
type Trainer struct {
	vocabSize     int
	specialTokens []string
	progressFn    ProgressFn
	logger        *slog.Logger
}

// Option configures a Trainer.
type Option func(t *Trainer)

// WithSpecialTokens reserves the first ids of the vocabulary for the given tokens, in order.
// Words in the corpus equal to a special token are not used for training.
//
// Special tokens must have at least two characters and no whitespace.
func WithSpecialTokens(tokens ...string) Option {
	return func(t *Trainer) {
		t.specialTokens = slices.Clone(tokens)
	}
}

// WithProgress sets a callback to report how many corpus items were consumed.
func WithProgress(progressFn ProgressFn) Option {
	return func(t *Trainer) {
		t.progressFn = progressFn
	}
}

// WithLogger sets the logger used to report merges (at debug level) and a summary of the training.
// It defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// NewTrainer creates a Trainer for the target vocabSize, counting special tokens.
//
// It fails with api.ErrInvalidConfig if vocabSize is not positive, or if a special token is repeated
// or is not a valid special token (see WithSpecialTokens).
func NewTrainer(vocabSize int, options ...Option) (*Trainer, error) {
	t := &Trainer{
		vocabSize: vocabSize,
		logger:    slog.Default(),
	}
	for _, option := range options {
		option(t)
	}
	if vocabSize <= 0 {
		return nil, api.Errorf(api.ErrInvalidConfig, "vocab_size must be positive, got %d", vocabSize)
	}
	seen := make(map[string]bool, len(t.specialTokens))
	for _, token := range t.specialTokens {
		if !isValidSpecialToken(token) {
			return nil, api.Errorf(api.ErrInvalidConfig,
				"special token %q must have at least two characters and no whitespace", token)
		}
		if seen[token] {
			return nil, api.Errorf(api.ErrInvalidConfig, "special token %q given more than once", token)
		}
		seen[token] = true
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t, nil
}

// Train is a shortcut to create a Trainer and train it on corpus.
func Train(corpus iter.Seq[string], vocabSize int, options ...Option) (*Vocabulary, error) {
	t, err := NewTrainer(vocabSize, options...)
	if err != nil {
		return nil, err
	}
	return t.Train(corpus), nil
}

// TrainStrings trains on a finite collection of strings.
func (t *Trainer) TrainStrings(corpus []string) *Vocabulary {
	return t.Train(slices.Values(corpus))
}

// trainWord is a distinct word of the corpus, as its current sequence of symbol ids.
type trainWord struct {
	symbols []int
	count   int
}

// pairStats holds the aggregated pair frequencies of one training run.
type pairStats struct {
	counts map[pair]int

	// where lists the words that contained the pair at some point. It may hold stale entries.
	where map[pair]map[int]struct{}

	// firstSeen orders pairs by first appearance, used to break ties deterministically.
	firstSeen map[pair]int
}

func newPairStats() *pairStats {
	return &pairStats{
		counts:    make(map[pair]int),
		where:     make(map[pair]map[int]struct{}),
		firstSeen: make(map[pair]int),
	}
}

func (s *pairStats) add(words []trainWord, wordIdx int) {
	w := &words[wordIdx]
	for ii := 0; ii+1 < len(w.symbols); ii++ {
		p := pair{w.symbols[ii], w.symbols[ii+1]}
		s.counts[p] += w.count
		if _, found := s.firstSeen[p]; !found {
			s.firstSeen[p] = len(s.firstSeen)
		}
		set, found := s.where[p]
		if !found {
			set = make(map[int]struct{})
			s.where[p] = set
		}
		set[wordIdx] = struct{}{}
	}
}

func (s *pairStats) remove(words []trainWord, wordIdx int) {
	w := &words[wordIdx]
	for ii := 0; ii+1 < len(w.symbols); ii++ {
		p := pair{w.symbols[ii], w.symbols[ii+1]}
		s.counts[p] -= w.count
		if s.counts[p] <= 0 {
			delete(s.counts, p)
		}
	}
}

// Train consumes corpus exactly once and learns a new Vocabulary.
//
// The corpus can be a one-pass sequence: stopping it early is the same as a shorter corpus.
// Training never fails: it stops when the target size is reached, or earlier if no pair of symbols
// occurs more than once.
func (t *Trainer) Train(corpus iter.Seq[string]) *Vocabulary {
	vocab := newVocabulary(t.specialTokens, t.vocabSize)

	// Collapse the corpus into distinct words with frequencies, in first-seen order.
	wordIndex := make(map[string]int)
	var (
		wordTexts []string
		words     []trainWord
		consumed  int
	)
	for text := range corpus {
		for _, w := range Pretokenize(text) {
			if id, found := vocab.ids[w.Text]; found && vocab.IsSpecial(id) {
				continue
			}
			if idx, found := wordIndex[w.Text]; found {
				words[idx].count++
				continue
			}
			wordIndex[w.Text] = len(words)
			wordTexts = append(wordTexts, w.Text)
			words = append(words, trainWord{count: 1})
		}
		consumed++
		if t.progressFn != nil {
			t.progressFn(consumed)
		}
	}

	// Base alphabet, in first-seen order.
	for idx, text := range wordTexts {
		chars, _ := splitChars(text, 0)
		symbols := make([]int, len(chars))
		for ii, char := range chars {
			symbols[ii] = vocab.addBase(char)
		}
		words[idx].symbols = symbols
	}

	stats := newPairStats()
	for idx := range words {
		stats.add(words, idx)
	}

	for vocab.Size() < t.vocabSize {
		best, bestCount, found := t.bestPair(vocab, stats)
		if !found {
			t.logger.Debug("no more pairs to merge", "vocab_size", vocab.Size())
			break
		}
		newID := vocab.addMerge(best)
		t.logger.Debug("merge",
			"rank", len(vocab.rules)-1,
			"left", vocab.tokens[best.left],
			"right", vocab.tokens[best.right],
			"result", vocab.tokens[newID],
			"count", bestCount)

		for _, idx := range slices.Sorted(maps.Keys(stats.where[best])) {
			if !containsPair(words[idx].symbols, best) {
				continue
			}
			stats.remove(words, idx)
			words[idx].symbols = replacePair(words[idx].symbols, best, newID)
			stats.add(words, idx)
		}
		delete(stats.counts, best)
		delete(stats.where, best)
	}

	t.logger.Info("trained SLICES tokenizer",
		"items", humanize.Comma(int64(consumed)),
		"distinct_words", humanize.Comma(int64(len(words))),
		"alphabet", vocab.firstMerge-vocab.numSpecial,
		"merges", len(vocab.rules),
		"vocab_size", vocab.Size(),
		"target_vocab_size", t.vocabSize)
	return vocab
}

// bestPair selects the most frequent pair that can still create a new symbol.
// Ties go to the pair seen first.
func (t *Trainer) bestPair(vocab *Vocabulary, stats *pairStats) (best pair, bestCount int, found bool) {
	for p, count := range stats.counts {
		if count < 2 {
			continue
		}
		if found && (count < bestCount || (count == bestCount && stats.firstSeen[p] > stats.firstSeen[best])) {
			continue
		}
		// A pair whose concatenation is already a symbol can't grow the vocabulary.
		if _, exists := vocab.ids[vocab.tokens[p.left]+vocab.tokens[p.right]]; exists {
			continue
		}
		best, bestCount, found = p, count, true
	}
	return
}

// containsPair reports whether p occurs in symbols.
func containsPair(symbols []int, p pair) bool {
	for ii := 0; ii+1 < len(symbols); ii++ {
		if symbols[ii] == p.left && symbols[ii+1] == p.right {
			return true
		}
	}
	return false
}

// replacePair replaces every occurrence of p in symbols by newID, leftmost first and
// non-overlapping. It returns a new slice.
func replacePair(symbols []int, p pair, newID int) []int {
	out := make([]int, 0, len(symbols))
	for ii := 0; ii < len(symbols); {
		if ii+1 < len(symbols) && symbols[ii] == p.left && symbols[ii+1] == p.right {
			out = append(out, newID)
			ii += 2
			continue
		}
		out = append(out, symbols[ii])
		ii++
	}
	return out
}
