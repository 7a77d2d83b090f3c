package slicesbpe

import (
	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/pkg/errors"
)

// specialTokenStrings are the conventional strings of the special tokens.
var specialTokenStrings = map[api.SpecialToken]string{
	api.TokUnknown:             "[UNK]",
	api.TokPad:                 "[PAD]",
	api.TokClassification:      "[CLS]",
	api.TokSeparator:           "[SEP]",
	api.TokMask:                "[MASK]",
	api.TokEndOfSentence:       "[EOS]",
	api.TokBeginningOfSentence: "[BOS]",
}

// DefaultSpecialTokens returns the special tokens usually reserved for SLICES models:
// [UNK], [PAD], [CLS], [SEP], [MASK] and [EOS], in this order.
func DefaultSpecialTokens() []string {
	return []string{"[UNK]", "[PAD]", "[CLS]", "[SEP]", "[MASK]", "[EOS]"}
}

// SpecialTokenID returns the id of the given special token, or an error if the vocabulary
// wasn't trained with it.
func (v *Vocabulary) SpecialTokenID(token api.SpecialToken) (int, error) {
	str, found := specialTokenStrings[token]
	if !found {
		return 0, errors.Errorf("unknown special token: %s (%d)", token, token)
	}
	id, found := v.ids[str]
	if !found || !v.IsSpecial(id) {
		return 0, errors.Errorf("special token %s (%q) not in vocabulary", token, str)
	}
	return id, nil
}
