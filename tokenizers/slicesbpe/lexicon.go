package slicesbpe

// Class of a SLICES token, following the lexemes of a SLICES string:
// element symbols ([A-Z][a-z]?), site indices ([0-9]+) and bond descriptors ([+\-o]{3}).
type Class int

const (
	ClassOther Class = iota
	ClassElement
	ClassNumber
	ClassBond
	ClassSpecial
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case ClassElement:
		return "element"
	case ClassNumber:
		return "number"
	case ClassBond:
		return "bond"
	case ClassSpecial:
		return "special"
	}
	return "other"
}

// BondLength is the number of glyphs in a bond descriptor.
const BondLength = 3

func isUpper(c byte) bool     { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool     { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }
func isBondGlyph(c byte) bool { return c == '+' || c == '-' || c == 'o' }

// isOtherChar is true for bytes that belong to none of the lexemes.
// Non-ASCII bytes fall in here too.
func isOtherChar(c byte) bool {
	return !isUpper(c) && !isLower(c) && !isDigit(c) && c != '+' && c != '-'
}

func allBytes(s string, fn func(c byte) bool) bool {
	for ii := 0; ii < len(s); ii++ {
		if !fn(s[ii]) {
			return false
		}
	}
	return true
}

// Classify returns the lexical class of a whole token. Special tokens are only known by a
// Vocabulary, so Classify never returns ClassSpecial.
func Classify(token string) Class {
	switch {
	case token == "":
		return ClassOther
	case len(token) <= 2 && isUpper(token[0]) && (len(token) == 1 || isLower(token[1])):
		return ClassElement
	case allBytes(token, isDigit):
		return ClassNumber
	case len(token) == BondLength && allBytes(token, isBondGlyph):
		return ClassBond
	}
	return ClassOther
}

// isLexemePrefix reports whether s is a non-empty prefix of some lexeme, or a run of
// characters outside every lexeme.
func isLexemePrefix(s string) bool {
	switch {
	case s == "":
		return false
	case isUpper(s[0]):
		return len(s) == 1 || (len(s) == 2 && isLower(s[1]))
	case isDigit(s[0]):
		return allBytes(s, isDigit)
	case isBondGlyph(s[0]):
		return len(s) <= BondLength && allBytes(s, isBondGlyph)
	}
	return allBytes(s, isOtherChar)
}

// lexemeComplete reports whether word can't be extended any further.
// Site indices are always complete: adjacent numbers are separate words.
func lexemeComplete(word string) bool {
	if !isLexemePrefix(word) {
		return true
	}
	switch {
	case isUpper(word[0]):
		return len(word) == 2
	case isDigit(word[0]):
		return true
	case isBondGlyph(word[0]):
		return len(word) == BondLength
	}
	return false
}

// continuesWord reports whether token, decoded right after word, belongs to the same word.
func continuesWord(word, token string) bool {
	if word == "" || lexemeComplete(word) {
		return false
	}
	return isLexemePrefix(word + token)
}
