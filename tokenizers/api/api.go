// Package api defines the Tokenizer API.
// It's just a hack to break the cyclic dependency, and allow the users to import `tokenizers` and get the
// default implementations.
package api

// Tokenizer interface allows one to convert text to "tokens" (integer ids) and back.
//
// It also allows mapping of special tokens: tokens with a common semantic (like padding) but that
// may map to different ids (int) for different tokenizers.
type Tokenizer interface {
	// Encode text into an Encoding. If some symbol of the text can't be resolved to an id, the
	// Encoding is still returned (with UnknownID in those positions) along with an error of kind
	// ErrUnresolvedSymbol.
	Encode(text string) (*Encoding, error)

	// Decode ids back to text. Unknown ids fail with ErrUnknownID.
	Decode(ids []int) (string, error)

	// VocabSize returns the number of distinct tokens known.
	VocabSize() int

	// SpecialTokenID returns ID for given special token if registered, or an error if not.
	SpecialTokenID(token SpecialToken) (int, error)
}

// SpecialToken is an enum of commonly used special tokens.
type SpecialToken int

const (
	TokBeginningOfSentence SpecialToken = iota
	TokEndOfSentence
	TokUnknown
	TokPad
	TokMask
	TokClassification
	TokSeparator
	TokSpecialTokensCount
)

var specialTokenNames = [...]string{
	TokBeginningOfSentence: "beginning_of_sentence",
	TokEndOfSentence:       "end_of_sentence",
	TokUnknown:             "unknown",
	TokPad:                 "pad",
	TokMask:                "mask",
	TokClassification:      "classification",
	TokSeparator:           "separator",
}

// String implements fmt.Stringer.
func (t SpecialToken) String() string {
	if t < 0 || t >= TokSpecialTokensCount {
		return "invalid"
	}
	return specialTokenNames[t]
}

// UnknownID is the id reported in an Encoding for a symbol with no entry in the vocabulary.
// It is never a valid vocabulary id.
const UnknownID = -1

// Span is a half-open byte range [Start, End) of the encoded text.
type Span struct {
	Start, End int
}

// Encoding is the result of encoding one string.
//
// Tokens, IDs, Offsets and Words are parallel slices, one entry per token, in left-to-right order.
type Encoding struct {
	Tokens []string
	IDs    []int

	// Offsets of each token in the original text.
	Offsets []Span

	// Words holds the index of the whitespace-delimited word each token came from.
	Words []int
}

// Len returns the number of tokens.
func (e *Encoding) Len() int {
	return len(e.Tokens)
}

// Unresolved returns the positions of the tokens that have no id (UnknownID).
func (e *Encoding) Unresolved() []int {
	var positions []int
	for ii, id := range e.IDs {
		if id == UnknownID {
			positions = append(positions, ii)
		}
	}
	return positions
}
