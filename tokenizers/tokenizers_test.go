package tokenizers

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/example/go-slices-tokenizer/hub"
	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/example/go-slices-tokenizer/tokenizers/slicesbpe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedVocabulary(t *testing.T) *slicesbpe.Vocabulary {
	t.Helper()
	corpus := []string{
		"Ga Bi Bi S S S S Cl 0 3 --o 0 5 oo- 0 6 o--",
		"Li Na K 1 2 +++ 1 3 --- 2 4 ooo",
	}
	vocab, err := slicesbpe.Train(slices.Values(corpus), 100,
		slicesbpe.WithSpecialTokens(slicesbpe.DefaultSpecialTokens()...),
		slicesbpe.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return vocab
}

func TestLoad(t *testing.T) {
	vocab := trainedVocabulary(t)
	filePath := filepath.Join(t.TempDir(), DefaultModelFileName)
	require.NoError(t, vocab.Save(filePath))

	tok, err := Load(filePath)
	require.NoError(t, err)
	assert.Equal(t, vocab.VocabSize(), tok.VocabSize())

	enc, err := tok.Encode("[CLS] Ga Bi --o [SEP]")
	require.NoError(t, err)
	decoded, err := tok.Decode(enc.IDs)
	require.NoError(t, err)
	assert.Equal(t, "[CLS] Ga Bi --o [SEP]", decoded)

	id, err := tok.SpecialTokenID(TokPad)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, api.ErrIOFailure)

	m := trainedVocabulary(t).Model()
	m.ModelType = "WordPiece"
	filePath := filepath.Join(dir, "wordpiece.json")
	require.NoError(t, api.WriteModelFile(m, filePath))
	_, err = Load(filePath)
	assert.ErrorIs(t, err, api.ErrCorruptModel)

	m = trainedVocabulary(t).Model()
	m.Merges = m.Merges[1:]
	filePath = filepath.Join(dir, "bad.yaml")
	require.NoError(t, api.WriteModelFile(m, filePath))
	_, err = Load(filePath)
	assert.ErrorIs(t, err, api.ErrCorruptModel)
	assert.Contains(t, err.Error(), filePath)
}

func TestRegisterTokenizerClass(t *testing.T) {
	const modelType = "SLICESTokenizerTest"
	var called bool
	RegisterTokenizerClass(modelType, func(model *api.Model) (api.Tokenizer, error) {
		called = true
		model.ModelType = slicesbpe.ModelType
		return slicesbpe.FromModel(model)
	})
	defer delete(registerOfClasses, modelType)

	m := trainedVocabulary(t).Model()
	m.ModelType = modelType
	tok, err := FromModel(m)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, len(m.Vocab), tok.VocabSize())
}

func TestNewFromHubCache(t *testing.T) {
	const commitHash = "fedcba9876543210"
	cacheDir := t.TempDir()
	repoDir := filepath.Join(cacheDir, "models--my-org--slices-bpe")
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "info"), 0755))
	info := `{"id": "my-org/slices-bpe", "sha": "` + commitHash + `", "siblings": [{"rfilename": "slices_tokenizer.json"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "info", "main"), []byte(info), 0644))
	vocab := trainedVocabulary(t)
	require.NoError(t, vocab.Save(filepath.Join(repoDir, "snapshots", commitHash, DefaultModelFileName)))

	repo := hub.New("my-org/slices-bpe").WithCacheDir(cacheDir).WithEndpoint("http://127.0.0.1:1")
	repo.Verbosity = 0
	tok, err := New(repo)
	require.NoError(t, err)
	assert.Equal(t, vocab.VocabSize(), tok.VocabSize())

	_, err = NewFromFile(repo, "missing.json")
	assert.ErrorIs(t, err, api.ErrIOFailure)
}
