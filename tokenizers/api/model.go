package api

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/example/go-slices-tokenizer/internal/files"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ModelVersion is the current version of the persisted model document.
const ModelVersion = 1

// Model holds the contents of a persisted tokenizer document.
//
// The order of Merges defines the rank of each merge rule: Merges[0] was learned first.
// The extra field FilePath holds the path the document was read from, if any.
type Model struct {
	FilePath string `json:"-" yaml:"-"`

	ModelType string `json:"model_type" yaml:"model_type"`
	Version   int    `json:"version" yaml:"version"`

	// VocabSize is the target vocabulary size requested at training time. The actual
	// vocabulary may be smaller.
	VocabSize int `json:"vocab_size" yaml:"vocab_size"`

	// SpecialTokens in id order, they always take the first ids.
	SpecialTokens []string `json:"special_tokens,omitempty" yaml:"special_tokens,omitempty"`

	Vocab  map[string]int `json:"vocab" yaml:"vocab"`
	Merges [][]string     `json:"merges" yaml:"merges"`
}

// Format of a persisted model document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// String implements fmt.Stringer.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatForPath returns FormatYAML for ".yaml" or ".yml" files, and FormatJSON for anything else.
func FormatForPath(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ParseModelFile reads and parses the model document in filePath, in the format given by its extension.
//
// Read failures are reported as ErrIOFailure, undecodable content as ErrCorruptModel. The document is
// not checked for internal consistency, that is left to the tokenizer that uses it.
func ParseModelFile(filePath string) (*Model, error) {
	expanded, err := files.ExpandPath(filePath)
	if err != nil {
		return nil, WithKind(ErrIOFailure, err)
	}
	content, err := files.ReadFile(expanded)
	if err != nil {
		return nil, WithKind(ErrIOFailure, err)
	}
	model, err := ParseModelContent(content, FormatForPath(filePath))
	if err != nil {
		return nil, errors.WithMessagef(err, "read from file %q", filePath)
	}
	model.FilePath = expanded
	return model, nil
}

// ParseModelContent parses the given content into a Model.
func ParseModelContent(content []byte, format Format) (*Model, error) {
	model := &Model{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(content, model)
	default:
		decoder := json.NewDecoder(bytes.NewReader(content))
		err = decoder.Decode(model)
	}
	if err != nil {
		return nil, Errorf(ErrCorruptModel, "failed to parse %s model content: %v", format, err)
	}
	return model, nil
}

// Marshal serializes the model in the given format.
// JSON output is indented, and map keys are sorted, so the output is stable.
func (m *Model) Marshal(format Format) ([]byte, error) {
	var (
		content []byte
		err     error
	)
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err = encoder.Encode(m); err == nil {
			err = encoder.Close()
		}
		content = buf.Bytes()
	default:
		content, err = json.MarshalIndent(m, "", "  ")
		content = append(content, '\n')
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize model to %s", format)
	}
	return content, nil
}

// WriteModelFile writes the model to filePath, in the format given by its extension.
// The file is replaced atomically. Storage failures are reported as ErrIOFailure.
func WriteModelFile(m *Model, filePath string) error {
	content, err := m.Marshal(FormatForPath(filePath))
	if err != nil {
		return err
	}
	expanded, err := files.ExpandPath(filePath)
	if err != nil {
		return WithKind(ErrIOFailure, err)
	}
	if err = files.WriteFileAtomic(expanded, content); err != nil {
		return WithKind(ErrIOFailure, err)
	}
	return nil
}
