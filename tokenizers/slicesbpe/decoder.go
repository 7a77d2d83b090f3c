package slicesbpe

import (
	"strings"

	"github.com/example/go-slices-tokenizer/tokenizers/api"
)

// Decode ids back into a string, with words separated by a single space.
//
// Ids carry no word boundaries, so they are recovered from the SLICES lexemes: a token continues the
// current word only if the word is an incomplete lexeme that the token extends (the lowercase letter
// of an element, the glyphs of a bond descriptor shorter than BondLength, or a run of characters
// outside every lexeme). Special tokens are always words on their own. Adjacent site indices are
// always separate words, so a multi-digit index split in more than one token decodes with spaces.
// Use DecodeEncoding to get the exact word layout of an Encoding.
//
// Any id not in the vocabulary fails the whole decoding with api.ErrUnknownID.
func (v *Vocabulary) Decode(ids []int) (string, error) {
	tokens, err := v.resolve(ids)
	if err != nil {
		return "", err
	}
	var (
		sb          strings.Builder
		word        strings.Builder
		wordSpecial bool
	)
	flush := func() {
		if word.Len() == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word.String())
		word.Reset()
	}
	for ii, token := range tokens {
		special := v.IsSpecial(ids[ii])
		if special || wordSpecial || !continuesWord(word.String(), token) {
			flush()
		}
		word.WriteString(token)
		wordSpecial = special
	}
	flush()
	return sb.String(), nil
}

// DecodeEncoding decodes enc.IDs, using enc.Words to join the tokens of each word with no separator,
// and separate words with a single space.
func (v *Vocabulary) DecodeEncoding(enc *api.Encoding) (string, error) {
	if len(enc.Words) != len(enc.IDs) {
		return "", api.Errorf(api.ErrInvalidConfig, "encoding has %d ids but %d word indices", len(enc.IDs), len(enc.Words))
	}
	tokens, err := v.resolve(enc.IDs)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for ii, token := range tokens {
		if ii > 0 && enc.Words[ii] != enc.Words[ii-1] {
			sb.WriteByte(' ')
		}
		sb.WriteString(token)
	}
	return sb.String(), nil
}

// resolve maps every id to its token.
func (v *Vocabulary) resolve(ids []int) ([]string, error) {
	tokens := make([]string, len(ids))
	for ii, id := range ids {
		token, found := v.Token(id)
		if !found {
			return nil, api.Errorf(api.ErrUnknownID, "id %d at position %d is not in the vocabulary of size %d", id, ii, v.Size())
		}
		tokens[ii] = token
	}
	return tokens, nil
}
