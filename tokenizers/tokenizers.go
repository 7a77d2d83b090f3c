// Package tokenizers creates tokenizers from persisted model documents, either local files or files
// published in a HuggingFace Hub repository.
//
// A document's "model_type" field selects the tokenizer class that loads it. The SLICES BPE
// tokenizer (see package slicesbpe) is always registered.
package tokenizers

import (
	"github.com/example/go-slices-tokenizer/hub"
	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/example/go-slices-tokenizer/tokenizers/slicesbpe"
	"github.com/pkg/errors"
)

// Tokenizer interface allows one to convert text to "tokens" (integer ids) and back.
//
// It also allows mapping of special tokens: tokens with a common semantic (like padding) but that
// may map to different ids (int) for different tokenizers.
type Tokenizer = api.Tokenizer

// SpecialToken is an enum of commonly used special tokens.
type SpecialToken = api.SpecialToken

// Encoding is the result of encoding a text.
type Encoding = api.Encoding

const (
	TokBeginningOfSentence = api.TokBeginningOfSentence
	TokEndOfSentence       = api.TokEndOfSentence
	TokUnknown             = api.TokUnknown
	TokPad                 = api.TokPad
	TokMask                = api.TokMask
	TokClassification      = api.TokClassification
	TokSeparator           = api.TokSeparator
	TokSpecialTokensCount  = api.TokSpecialTokensCount
)

// DefaultModelFileName is the repository file New loads.
const DefaultModelFileName = slicesbpe.ModelFileName

// Load a tokenizer from a model document saved on disk (JSON, or YAML for ".yaml"/".yml" files).
//
// It fails with api.ErrIOFailure if the file can't be read, and with api.ErrCorruptModel if the document
// is malformed or its model_type is not registered.
func Load(filePath string) (Tokenizer, error) {
	model, err := api.ParseModelFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromModel(model)
}

// FromModel creates the tokenizer for an already parsed model document.
func FromModel(model *api.Model) (Tokenizer, error) {
	constructor, found := registerOfClasses[model.ModelType]
	if !found {
		return nil, api.Errorf(api.ErrCorruptModel, "unknown tokenizer model_type %q", model.ModelType)
	}
	tok, err := constructor(model)
	if err != nil {
		if model.FilePath != "" {
			return nil, errors.WithMessagef(err, "read from file %q", model.FilePath)
		}
		return nil, err
	}
	return tok, nil
}

// New creates a tokenizer from the model document DefaultModelFileName in the given HuggingFace repo
// (see hub.New). Use NewFromFile to select a different file.
func New(repo *hub.Repo) (Tokenizer, error) {
	return NewFromFile(repo, DefaultModelFileName)
}

// NewFromFile downloads (or reuses from the cache) the repository file and loads it.
func NewFromFile(repo *hub.Repo, fileName string) (Tokenizer, error) {
	model, err := GetModel(repo, fileName)
	if err != nil {
		return nil, err
	}
	return FromModel(model)
}

// GetModel returns the parsed model document fileName from the repo.
func GetModel(repo *hub.Repo, fileName string) (*api.Model, error) {
	err := repo.DownloadInfo(false)
	if err != nil {
		return nil, api.WithKind(api.ErrIOFailure, err)
	}
	localFile, err := repo.DownloadFile(fileName)
	if err != nil {
		return nil, api.WithKind(api.ErrIOFailure, err)
	}
	return api.ParseModelFile(localFile)
}

// TokenizerConstructor is used by Tokenizer implementations to load the model documents of
// their model_type.
type TokenizerConstructor func(model *api.Model) (api.Tokenizer, error)

// RegisterTokenizerClass associates a model_type with the constructor of its tokenizer.
// Registering an existing model_type replaces its constructor.
func RegisterTokenizerClass(modelType string, constructor TokenizerConstructor) {
	registerOfClasses[modelType] = constructor
}

var (
	registerOfClasses = make(map[string]TokenizerConstructor)
)

func init() {
	RegisterTokenizerClass(slicesbpe.ModelType, func(model *api.Model) (api.Tokenizer, error) {
		vocab, err := slicesbpe.FromModel(model)
		if err != nil {
			return nil, err
		}
		return vocab, nil
	})
}
