package slicesbpe

import (
	"testing"

	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	vocab := trainScenario(t, 1000)

	enc, err := vocab.Encode("Ga Bi --o oo- +oo")
	require.NoError(t, err)
	assert.Equal(t, []string{"G", "a", "Bi", "--", "o", "oo", "-", "+", "oo"}, enc.Tokens)
	assert.Equal(t, []int{0, 1, 22, 20, 10, 21, 9, 18, 21}, enc.IDs)
	assert.Equal(t, []int{0, 0, 1, 2, 2, 3, 3, 4, 4}, enc.Words)
	assert.Empty(t, enc.Unresolved())

	// Every token lies inside the span of its word.
	words := Pretokenize("Ga Bi --o oo- +oo")
	for ii, span := range enc.Offsets {
		w := words[enc.Words[ii]]
		assert.GreaterOrEqual(t, span.Start, w.Start)
		assert.LessOrEqual(t, span.End, w.End)
	}

	ids, err := vocab.EncodeIDs("Ga Bi --o oo- +oo")
	require.NoError(t, err)
	assert.Equal(t, enc.IDs, ids)
}

func TestEncodeOffsets(t *testing.T) {
	vocab := trainScenario(t, 1000)
	enc, err := vocab.Encode("Ga  Bi\t--o")
	require.NoError(t, err)
	assert.Equal(t, []api.Span{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 4, End: 6}, {Start: 7, End: 9}, {Start: 9, End: 10}}, enc.Offsets)
}

func TestEncodeEmpty(t *testing.T) {
	vocab := trainScenario(t, 1000)
	for _, text := range []string{"", "  \t\n"} {
		enc, err := vocab.Encode(text)
		require.NoError(t, err)
		assert.Zero(t, enc.Len())
	}
}

func TestEncodeIsPure(t *testing.T) {
	vocab := trainScenario(t, 1000)
	first, err := vocab.Encode(scenarioCorpus[0])
	require.NoError(t, err)
	for range 3 {
		again, err := vocab.Encode(scenarioCorpus[0])
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEncodeUnresolvedSymbol(t *testing.T) {
	vocab := trainScenario(t, 1000)

	enc, err := vocab.Encode("Ga X")
	require.ErrorIs(t, err, api.ErrUnresolvedSymbol)
	require.NotNil(t, enc)
	assert.Equal(t, []int{0, 1, api.UnknownID}, enc.IDs)
	assert.Equal(t, []string{"G", "a", "X"}, enc.Tokens)
	assert.Equal(t, []int{2}, enc.Unresolved())

	enc, err = vocab.Encode("Ga é")
	require.ErrorIs(t, err, api.ErrUnresolvedSymbol)
	assert.Equal(t, api.Span{Start: 3, End: 5}, enc.Offsets[2])

	ids, err := vocab.EncodeIDs("X")
	assert.ErrorIs(t, err, api.ErrUnresolvedSymbol)
	assert.Nil(t, ids)
}

func TestEncodeSpecialTokens(t *testing.T) {
	vocab := trainScenario(t, 1000, WithSpecialTokens(DefaultSpecialTokens()...))
	enc, err := vocab.Encode("[CLS] Ga [SEP]")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6, 7, 3}, enc.IDs)
	assert.Equal(t, []string{"[CLS]", "G", "a", "[SEP]"}, enc.Tokens)

	decoded, err := vocab.Decode(enc.IDs)
	require.NoError(t, err)
	assert.Equal(t, "[CLS] Ga [SEP]", decoded)
}

func TestDecodeRoundTrip(t *testing.T) {
	vocab := trainScenario(t, 1000)
	for _, text := range append(scenarioCorpus, "Ga Bi --o oo- +oo") {
		ids, err := vocab.EncodeIDs(text)
		require.NoError(t, err)
		decoded, err := vocab.Decode(ids)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}

	// Whitespace is normalized to single spaces.
	ids, err := vocab.EncodeIDs("  Ga \t Bi\n--o  ")
	require.NoError(t, err)
	decoded, err := vocab.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "Ga Bi --o", decoded)
}

func TestDecodeEncoding(t *testing.T) {
	vocab := trainScenario(t, 1000)

	// "10" was never merged: ids alone can't tell it from two site indices.
	enc, err := vocab.Encode("Cl 10 3")
	require.NoError(t, err)
	decoded, err := vocab.Decode(enc.IDs)
	require.NoError(t, err)
	assert.Equal(t, "Cl 1 0 3", decoded)

	decoded, err = vocab.DecodeEncoding(enc)
	require.NoError(t, err)
	assert.Equal(t, "Cl 10 3", decoded)

	enc.Words = enc.Words[1:]
	_, err = vocab.DecodeEncoding(enc)
	assert.ErrorIs(t, err, api.ErrInvalidConfig)
}

func TestDecodeUnknownID(t *testing.T) {
	vocab := trainScenario(t, 1000)
	for _, ids := range [][]int{{0, 999}, {api.UnknownID}, {vocab.Size()}} {
		_, err := vocab.Decode(ids)
		assert.ErrorIs(t, err, api.ErrUnknownID, "ids=%v", ids)
	}

	decoded, err := vocab.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
