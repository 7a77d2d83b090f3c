package slicesbpe

import (
	"github.com/example/go-slices-tokenizer/tokenizers/api"
)

// piece is a symbol of a word being encoded. id is api.UnknownID for characters not in the vocabulary.
type piece struct {
	id         int
	symbol     string
	start, end int
}

// Encode text into tokens and ids.
//
// Each word is split into characters, and then the applicable merge rule with the lowest rank is
// applied to all its occurrences, until no adjacent pair matches a rule. Words equal to a special
// token are emitted as that token.
//
// Characters never seen in training stay as single-character tokens with id api.UnknownID. In that
// case the full Encoding is returned along with an error of kind api.ErrUnresolvedSymbol.
//
// Encoding is a pure function of text and the vocabulary.
func (v *Vocabulary) Encode(text string) (*api.Encoding, error) {
	words := Pretokenize(text)
	enc := &api.Encoding{
		Tokens:  make([]string, 0, len(text)),
		IDs:     make([]int, 0, len(text)),
		Offsets: make([]api.Span, 0, len(text)),
		Words:   make([]int, 0, len(text)),
	}
	var unresolved []string
	for wordIdx, word := range words {
		for _, p := range v.encodeWord(word) {
			enc.Tokens = append(enc.Tokens, p.symbol)
			enc.IDs = append(enc.IDs, p.id)
			enc.Offsets = append(enc.Offsets, api.Span{Start: p.start, End: p.end})
			enc.Words = append(enc.Words, wordIdx)
			if p.id == api.UnknownID {
				unresolved = append(unresolved, p.symbol)
			}
		}
	}
	if len(unresolved) > 0 {
		return enc, api.Errorf(api.ErrUnresolvedSymbol, "%d symbol(s) not in vocabulary: %q", len(unresolved), unresolved)
	}
	return enc, nil
}

// EncodeIDs is like Encode, but returns only the ids.
func (v *Vocabulary) EncodeIDs(text string) ([]int, error) {
	enc, err := v.Encode(text)
	if err != nil {
		return nil, err
	}
	return enc.IDs, nil
}

// encodeWord applies the merge rules to one word.
func (v *Vocabulary) encodeWord(word Word) []piece {
	if id, found := v.ids[word.Text]; found && v.IsSpecial(id) {
		return []piece{{id: id, symbol: word.Text, start: word.Start, end: word.End}}
	}

	chars, starts := splitChars(word.Text, word.Start)
	pieces := make([]piece, len(chars))
	for ii, char := range chars {
		id, found := v.ids[char]
		if !found {
			id = api.UnknownID
		}
		pieces[ii] = piece{id: id, symbol: char, start: starts[ii], end: starts[ii] + len(char)}
	}

	for len(pieces) > 1 {
		bestRank := -1
		for ii := 0; ii+1 < len(pieces); ii++ {
			rank, found := v.ranks[pair{pieces[ii].id, pieces[ii+1].id}]
			if found && (bestRank < 0 || rank < bestRank) {
				bestRank = rank
			}
		}
		if bestRank < 0 {
			break
		}
		pieces = v.applyRule(pieces, v.rules[bestRank])
	}
	return pieces
}

// applyRule replaces all occurrences of the rule's pair, leftmost first and non-overlapping.
func (v *Vocabulary) applyRule(pieces []piece, r rule) []piece {
	out := pieces[:0]
	for ii := 0; ii < len(pieces); {
		if ii+1 < len(pieces) && pieces[ii].id == r.left && pieces[ii+1].id == r.right {
			out = append(out, piece{
				id:     r.result,
				symbol: v.tokens[r.result],
				start:  pieces[ii].start,
				end:    pieces[ii+1].end,
			})
			ii += 2
			continue
		}
		out = append(out, pieces[ii])
		ii++
	}
	return out
}
