package slicesbpe

import (
	"unicode"
	"unicode/utf8"
)

// Word is one whitespace-delimited span of a text. Merges never cross word boundaries.
type Word struct {
	Text string

	// Start and End are the byte offsets of the word in the original text.
	Start, End int
}

// Pretokenize splits text on runs of whitespace, discarding the whitespace itself.
// No other normalization is applied: element symbols, digits and bond glyphs are taken literally.
// Empty or all-whitespace text yields no words.
func Pretokenize(text string) []Word {
	var words []Word
	start := -1
	for pos, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, Word{Text: text[start:pos], Start: start, End: pos})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = pos
		}
	}
	if start >= 0 {
		words = append(words, Word{Text: text[start:], Start: start, End: len(text)})
	}
	return words
}

// splitChars returns the characters of word with their byte offsets relative to base.
// Invalid UTF-8 bytes are kept as single-byte characters, so the text is always fully covered.
func splitChars(word string, base int) (chars []string, starts []int) {
	chars = make([]string, 0, len(word))
	starts = make([]int, 0, len(word))
	for pos := 0; pos < len(word); {
		_, size := utf8.DecodeRuneInString(word[pos:])
		chars = append(chars, word[pos:pos+size])
		starts = append(starts, base+pos)
		pos += size
	}
	return
}
