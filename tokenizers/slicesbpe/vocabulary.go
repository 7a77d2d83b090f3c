package slicesbpe

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/go-slices-tokenizer/tokenizers/api"
)

// pair of adjacent symbol ids.
type pair struct {
	left, right int
}

// rule is a merge rule in id space. Its rank is its index in Vocabulary.rules.
type rule struct {
	left, right, result int
}

// Merge is a learned merge rule: Left and Right, when adjacent, are replaced by Result.
// Rank is the training order, lower ranks are applied first.
type Merge struct {
	Left, Right, Result string
	Rank                int
}

// Vocabulary maps symbols to dense ids and back, and holds the ordered merge rules.
//
// Ids are assigned in creation order: special tokens first, then the base alphabet
// (single characters in first-seen order), then merged symbols in training order.
//
// A Vocabulary is immutable once built by a Trainer or loaded from a model, and it is safe for
// concurrent use.
type Vocabulary struct {
	tokens []string
	ids    map[string]int

	numSpecial int

	// firstMerge is the id of the first merged symbol.
	firstMerge int

	rules []rule
	ranks map[pair]int

	// targetSize is the vocabulary size requested at training time.
	targetSize int
}

// Compile time assert that Vocabulary implements the api.Tokenizer interface.
var _ api.Tokenizer = &Vocabulary{}

func newVocabulary(specialTokens []string, targetSize int) *Vocabulary {
	v := &Vocabulary{
		ids:        make(map[string]int),
		ranks:      make(map[pair]int),
		targetSize: targetSize,
	}
	for _, token := range specialTokens {
		v.addSymbol(token)
	}
	v.numSpecial = len(v.tokens)
	v.firstMerge = v.numSpecial
	return v
}

// addSymbol returns the id of symbol, creating it if needed.
func (v *Vocabulary) addSymbol(symbol string) int {
	if id, found := v.ids[symbol]; found {
		return id
	}
	id := len(v.tokens)
	v.tokens = append(v.tokens, symbol)
	v.ids[symbol] = id
	return id
}

// addBase adds a base character. It must be called before any merge is added.
func (v *Vocabulary) addBase(char string) int {
	id := v.addSymbol(char)
	v.firstMerge = len(v.tokens)
	return id
}

// addMerge creates the symbol for the pair, records the rule and returns the new id.
func (v *Vocabulary) addMerge(p pair) int {
	id := len(v.tokens)
	symbol := v.tokens[p.left] + v.tokens[p.right]
	v.tokens = append(v.tokens, symbol)
	v.ids[symbol] = id
	v.ranks[p] = len(v.rules)
	v.rules = append(v.rules, rule{left: p.left, right: p.right, result: id})
	return id
}

// Size returns the number of distinct symbols, special tokens included.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// VocabSize implements api.Tokenizer. It is the same as Size.
func (v *Vocabulary) VocabSize() int {
	return v.Size()
}

// TargetSize returns the vocabulary size requested when training.
func (v *Vocabulary) TargetSize() int {
	return v.targetSize
}

// ID returns the id of token, and whether it is in the vocabulary.
func (v *Vocabulary) ID(token string) (id int, found bool) {
	id, found = v.ids[token]
	return
}

// Token returns the symbol for id, and whether id is in the vocabulary.
func (v *Vocabulary) Token(id int) (token string, found bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Tokens returns all symbols indexed by id.
func (v *Vocabulary) Tokens() []string {
	return slices.Clone(v.tokens)
}

// SpecialTokens returns the special tokens, in id order.
func (v *Vocabulary) SpecialTokens() []string {
	return slices.Clone(v.tokens[:v.numSpecial])
}

// IsSpecial reports whether id is a special token.
func (v *Vocabulary) IsSpecial(id int) bool {
	return id >= 0 && id < v.numSpecial
}

// Alphabet returns the base characters, in id order.
func (v *Vocabulary) Alphabet() []string {
	return slices.Clone(v.tokens[v.numSpecial:v.firstMerge])
}

// NumMerges returns the number of merge rules.
func (v *Vocabulary) NumMerges() int {
	return len(v.rules)
}

// Merges returns the merge rules in rank order.
func (v *Vocabulary) Merges() []Merge {
	merges := make([]Merge, len(v.rules))
	for rank, r := range v.rules {
		merges[rank] = Merge{
			Left:   v.tokens[r.left],
			Right:  v.tokens[r.right],
			Result: v.tokens[r.result],
			Rank:   rank,
		}
	}
	return merges
}

// isBaseChar reports whether s is exactly one character.
// isValidSpecialToken reports whether token can be kept whole: it is neither a single character
// nor split by whitespace.
func isValidSpecialToken(token string) bool {
	return utf8.RuneCountInString(token) >= 2 && strings.IndexFunc(token, unicode.IsSpace) < 0
}

func isBaseChar(s string) bool {
	if s == "" {
		return false
	}
	_, size := utf8.DecodeRuneInString(s)
	return size == len(s)
}
