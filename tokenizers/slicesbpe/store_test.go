package slicesbpe

import (
	"path/filepath"
	"testing"

	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	for _, fileName := range []string{ModelFileName, "tokenizer.yaml"} {
		t.Run(fileName, func(t *testing.T) {
			vocab := trainScenario(t, 1000, WithSpecialTokens("[PAD]", "[UNK]"))
			filePath := filepath.Join(t.TempDir(), "models", fileName)
			require.NoError(t, vocab.Save(filePath))

			loaded, err := Load(filePath)
			require.NoError(t, err)
			assert.Equal(t, vocab.Tokens(), loaded.Tokens())
			assert.Equal(t, vocab.Merges(), loaded.Merges())
			assert.Equal(t, vocab.SpecialTokens(), loaded.SpecialTokens())
			assert.Equal(t, vocab.Alphabet(), loaded.Alphabet())
			assert.Equal(t, 1000, loaded.TargetSize())

			for _, text := range append(scenarioCorpus, "Ga Bi --o oo- +oo") {
				want, err := vocab.Encode(text)
				require.NoError(t, err)
				got, err := loaded.Encode(text)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestModel(t *testing.T) {
	vocab := trainScenario(t, 1000)
	m := vocab.Model()
	assert.Equal(t, ModelType, m.ModelType)
	assert.Equal(t, api.ModelVersion, m.Version)
	assert.Equal(t, 1000, m.VocabSize)
	assert.Empty(t, m.SpecialTokens)
	assert.Len(t, m.Vocab, 24)
	assert.Equal(t, 20, m.Vocab["--"])
	assert.Equal(t, [][]string{{"-", "-"}, {"o", "o"}, {"B", "i"}, {"+", "+"}}, m.Merges)

	// A model without any merge still has a non-nil list of merges.
	vocab = trainScenario(t, 1)
	assert.NotNil(t, vocab.Model().Merges)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, api.ErrIOFailure)
}

func TestFromModelCorrupt(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(m *api.Model)
	}{
		{"wrong model type", func(m *api.Model) { m.ModelType = "BPE" }},
		{"wrong version", func(m *api.Model) { m.Version = api.ModelVersion + 1 }},
		{"missing vocab", func(m *api.Model) { m.Vocab = nil }},
		{"duplicate id", func(m *api.Model) { m.Vocab["G"] = 1 }},
		{"id out of range", func(m *api.Model) { m.Vocab["G"] = 100 }},
		{"negative id", func(m *api.Model) { m.Vocab["G"] = -1 }},
		{"empty token", func(m *api.Model) { m.Vocab[""] = len(m.Vocab) }},
		{"unknown merge symbol", func(m *api.Model) { m.Merges[0] = []string{"-", "Z"} }},
		{"merge with three symbols", func(m *api.Model) { m.Merges[0] = []string{"-", "-", "-"} }},
		{"merges out of order", func(m *api.Model) { m.Merges[0], m.Merges[1] = m.Merges[1], m.Merges[0] }},
		{"extra merge", func(m *api.Model) { m.Merges = append(m.Merges, []string{"G", "a"}) }},
		{"too many merges", func(m *api.Model) {
			for range len(m.Vocab) {
				m.Merges = append(m.Merges, []string{"G", "a"})
			}
		}},
		{"special token not first", func(m *api.Model) { m.SpecialTokens = []string{"[UNK]"} }},
		{"too many special tokens", func(m *api.Model) { m.SpecialTokens = make([]string, 100) }},
		{"multi-character base symbol", func(m *api.Model) {
			m.Vocab["Ga"] = m.Vocab["G"]
			delete(m.Vocab, "G")
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := trainScenario(t, 1000).Model()
			tc.mutate(m)
			_, err := FromModel(m)
			assert.ErrorIs(t, err, api.ErrCorruptModel)
		})
	}
}

func TestFromModelInvalidSpecialTokens(t *testing.T) {
	replaceSpecial := func(m *api.Model, token string) {
		delete(m.Vocab, m.SpecialTokens[0])
		m.Vocab[token] = 0
		m.SpecialTokens[0] = token
	}
	testCases := []struct {
		name   string
		mutate func(m *api.Model)
	}{
		{"single character", func(m *api.Model) { replaceSpecial(m, "Z") }},
		{"whitespace", func(m *api.Model) { replaceSpecial(m, "[P D]") }},
		{"merge of special token", func(m *api.Model) { m.Merges[0] = []string{"[PAD]", "-"} }},
		{"merge into special token", func(m *api.Model) { m.Merges[0] = []string{"-", "[UNK]"} }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := trainScenario(t, 1000, WithSpecialTokens("[PAD]", "[UNK]")).Model()
			_, err := FromModel(m)
			require.NoError(t, err)
			tc.mutate(m)
			_, err = FromModel(m)
			assert.ErrorIs(t, err, api.ErrCorruptModel)
			assert.Contains(t, err.Error(), "special token")
		})
	}
}

func TestLoadCorruptFile(t *testing.T) {
	m := trainScenario(t, 1000).Model()
	m.Merges[0] = []string{"-", "Z"}
	filePath := filepath.Join(t.TempDir(), ModelFileName)
	require.NoError(t, api.WriteModelFile(m, filePath))

	_, err := Load(filePath)
	assert.ErrorIs(t, err, api.ErrCorruptModel)
	assert.Contains(t, err.Error(), filePath)
}
