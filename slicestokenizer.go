// Package slicestokenizer only holds the version of the set of tools to train and use subword
// tokenizers for SLICES crystal strings.
//
// There are 3 main sub-packages:
//
//   - tokenizers/slicesbpe: the tokenizer engine. Training, encoding, decoding and model persistence.
//   - tokenizers: to load a trained tokenizer from a model file or a HuggingFace Hub repository.
//   - hub: to download model files from HuggingFace Hub.
package slicestokenizer

// Version of the library.
// Manually kept in sync with project releases.
var Version = "v0.0.0-dev"
