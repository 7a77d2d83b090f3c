// Package slicesbpe implements a subword tokenizer for SLICES strings: whitespace-delimited sequences
// of element symbols, site indices and bond descriptors (e.g. "Ga Bi 0 3 --o").
//
// A Trainer learns a Vocabulary with byte-pair-encoding over characters, never merging across
// whitespace. The Vocabulary encodes strings to tokens and ids, decodes ids back, and can be saved
// and loaded as a JSON or YAML document.
//
// Example:
//
//	vocab, err := slicesbpe.Train(slices.Values(corpus), 1000)
//	if err != nil { ... }
//	enc, err := vocab.Encode("Ga Bi --o oo- +oo")
//	if err != nil { ... }
//	text, err := vocab.Decode(enc.IDs)
package slicesbpe
