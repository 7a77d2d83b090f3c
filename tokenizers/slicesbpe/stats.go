package slicesbpe

// maxSampleBonds is the number of bond descriptors listed in Stats.
const maxSampleBonds = 10

// Stats summarizes the symbols of a vocabulary by lexical class.
type Stats struct {
	Total    int
	Special  int
	Element  int
	Number   int
	Bond     int
	Other    int
	Alphabet int
	Merges   int

	// SampleBonds lists the first bond descriptors of the vocabulary, in id order.
	SampleBonds []string
}

// Count returns the number of symbols of the given class.
func (s Stats) Count(class Class) int {
	switch class {
	case ClassSpecial:
		return s.Special
	case ClassElement:
		return s.Element
	case ClassNumber:
		return s.Number
	case ClassBond:
		return s.Bond
	}
	return s.Other
}

// Stats counts the symbols of the vocabulary per lexical class.
func (v *Vocabulary) Stats() Stats {
	s := Stats{
		Total:    v.Size(),
		Alphabet: v.firstMerge - v.numSpecial,
		Merges:   len(v.rules),
	}
	for id, token := range v.tokens {
		class := Classify(token)
		if v.IsSpecial(id) {
			class = ClassSpecial
		}
		switch class {
		case ClassSpecial:
			s.Special++
		case ClassElement:
			s.Element++
		case ClassNumber:
			s.Number++
		case ClassBond:
			s.Bond++
			if len(s.SampleBonds) < maxSampleBonds {
				s.SampleBonds = append(s.SampleBonds, token)
			}
		default:
			s.Other++
		}
	}
	return s
}
