package slicesbpe

import (
	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/pkg/errors"
)

const (
	// ModelType identifies SLICES tokenizer documents, in the "model_type" field.
	ModelType = "SLICESTokenizer"

	// ModelFileName is the conventional file name of a persisted SLICES tokenizer.
	ModelFileName = "slices_tokenizer.json"
)

// Model returns the persisted document for the vocabulary.
func (v *Vocabulary) Model() *api.Model {
	m := &api.Model{
		ModelType:     ModelType,
		Version:       api.ModelVersion,
		VocabSize:     v.targetSize,
		SpecialTokens: v.SpecialTokens(),
		Vocab:         make(map[string]int, len(v.tokens)),
		Merges:        make([][]string, 0, len(v.rules)),
	}
	for id, token := range v.tokens {
		m.Vocab[token] = id
	}
	for _, r := range v.rules {
		m.Merges = append(m.Merges, []string{v.tokens[r.left], v.tokens[r.right]})
	}
	return m
}

// Save writes the vocabulary to filePath, as JSON or YAML depending on its extension.
// Storage failures are reported as api.ErrIOFailure.
func (v *Vocabulary) Save(filePath string) error {
	if err := api.WriteModelFile(v.Model(), filePath); err != nil {
		return errors.WithMessagef(err, "while saving SLICES tokenizer")
	}
	return nil
}

// Load reads a vocabulary saved with Vocabulary.Save.
//
// It fails with api.ErrIOFailure if the file can't be read, and with api.ErrCorruptModel if the
// document is malformed or inconsistent.
func Load(filePath string) (*Vocabulary, error) {
	m, err := api.ParseModelFile(filePath)
	if err != nil {
		return nil, err
	}
	v, err := FromModel(m)
	if err != nil {
		return nil, errors.WithMessagef(err, "read from file %q", filePath)
	}
	return v, nil
}

// FromModel rebuilds a Vocabulary from its persisted document.
//
// The document must be exactly what training produces, it is never repaired:
//
//   - ids are dense (0 to len(vocab)-1), with no duplicates;
//   - special tokens hold the first ids, in order, are at least two characters long without
//     whitespace, and take no part in merges;
//   - the ids after them, up to the first merged symbol, are single characters;
//   - merge rule of rank r joins two symbols created before it, and its result has the id of
//     the first merged symbol plus r.
//
// Any violation fails with api.ErrCorruptModel.
func FromModel(m *api.Model) (*Vocabulary, error) {
	if m.ModelType != ModelType {
		return nil, api.Errorf(api.ErrCorruptModel, "model_type %q is not %q", m.ModelType, ModelType)
	}
	if m.Version != api.ModelVersion {
		return nil, api.Errorf(api.ErrCorruptModel, "unsupported model version %d, want %d", m.Version, api.ModelVersion)
	}
	if m.Vocab == nil {
		return nil, api.Errorf(api.ErrCorruptModel, "missing vocab")
	}

	size := len(m.Vocab)
	tokens := make([]string, size)
	for token, id := range m.Vocab {
		if token == "" {
			return nil, api.Errorf(api.ErrCorruptModel, "empty token with id %d", id)
		}
		if id < 0 || id >= size {
			return nil, api.Errorf(api.ErrCorruptModel, "id %d of token %q out of range, ids must be contiguous from 0 to %d", id, token, size-1)
		}
		if tokens[id] != "" {
			return nil, api.Errorf(api.ErrCorruptModel, "duplicate id %d for tokens %q and %q", id, tokens[id], token)
		}
		tokens[id] = token
	}

	numSpecial := len(m.SpecialTokens)
	if numSpecial > size {
		return nil, api.Errorf(api.ErrCorruptModel, "%d special tokens but only %d symbols", numSpecial, size)
	}
	for id, token := range m.SpecialTokens {
		if tokens[id] != token {
			return nil, api.Errorf(api.ErrCorruptModel, "special token %q must have id %d", token, id)
		}
		if !isValidSpecialToken(token) {
			return nil, api.Errorf(api.ErrCorruptModel, "invalid special token %q", token)
		}
	}

	firstMerge := size - len(m.Merges)
	if firstMerge < numSpecial {
		return nil, api.Errorf(api.ErrCorruptModel, "%d merges don't fit in a vocabulary of %d symbols with %d special tokens",
			len(m.Merges), size, numSpecial)
	}
	for id := numSpecial; id < firstMerge; id++ {
		if !isBaseChar(tokens[id]) {
			return nil, api.Errorf(api.ErrCorruptModel, "base symbol %q (id %d) is not a single character", tokens[id], id)
		}
	}

	v := &Vocabulary{
		tokens:     tokens,
		ids:        make(map[string]int, size),
		numSpecial: numSpecial,
		firstMerge: firstMerge,
		rules:      make([]rule, 0, len(m.Merges)),
		ranks:      make(map[pair]int, len(m.Merges)),
		targetSize: m.VocabSize,
	}
	for token, id := range m.Vocab {
		v.ids[token] = id
	}
	for rank, merge := range m.Merges {
		if len(merge) != 2 {
			return nil, api.Errorf(api.ErrCorruptModel, "merge rule %d has %d symbols, want 2", rank, len(merge))
		}
		resultID := firstMerge + rank
		left, leftFound := m.Vocab[merge[0]]
		right, rightFound := m.Vocab[merge[1]]
		if !leftFound || !rightFound {
			return nil, api.Errorf(api.ErrCorruptModel, "merge rule %d (%q, %q) references an unknown symbol", rank, merge[0], merge[1])
		}
		if left < numSpecial || right < numSpecial {
			return nil, api.Errorf(api.ErrCorruptModel, "merge rule %d (%q, %q) uses a special token", rank, merge[0], merge[1])
		}
		if left >= resultID || right >= resultID {
			return nil, api.Errorf(api.ErrCorruptModel, "merge rule %d (%q, %q) uses a symbol created after it", rank, merge[0], merge[1])
		}
		if result := merge[0] + merge[1]; tokens[resultID] != result {
			return nil, api.Errorf(api.ErrCorruptModel, "merge rule %d (%q, %q) must produce %q with id %d, found %q",
				rank, merge[0], merge[1], result, resultID, tokens[resultID])
		}
		v.ranks[pair{left, right}] = rank
		v.rules = append(v.rules, rule{left: left, right: right, result: resultID})
	}
	return v, nil
}
