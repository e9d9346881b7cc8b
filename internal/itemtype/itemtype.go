// Package itemtype defines the item-type code space for CSAT reading
// comprehension items and the passage-length eligibility bands that gate
// which types can be generated from a given passage.
package itemtype

import "unicode/utf8"

// Code identifies an exam item type (e.g. "RC22" = main point MCQ).
type Code string

const (
	RC18 Code = "RC18" // writer's purpose (letter / notice)
	RC19 Code = "RC19" // emotion change of the narrator
	RC20 Code = "RC20" // writer's claim / argument
	RC21 Code = "RC21" // meaning of an underlined expression
	RC22 Code = "RC22" // main point
	RC23 Code = "RC23" // topic
	RC24 Code = "RC24" // best title
	RC25 Code = "RC25" // chart / table consistency
	RC26 Code = "RC26" // biography detail (true/false)
	RC27 Code = "RC27" // notice detail mismatch
	RC28 Code = "RC28" // notice detail match
	RC29 Code = "RC29" // grammar judgment
	RC30 Code = "RC30" // lexical appropriateness
	RC31 Code = "RC31" // blank: word
	RC32 Code = "RC32" // blank: phrase
	RC33 Code = "RC33" // blank: clause
	RC34 Code = "RC34" // blank: global inference
	RC35 Code = "RC35" // irrelevant sentence
	RC36 Code = "RC36" // paragraph order (standard)
	RC37 Code = "RC37" // paragraph order (reasoning-heavy)
	RC38 Code = "RC38" // sentence insertion
	RC39 Code = "RC39" // sentence insertion (hard)
	RC40 Code = "RC40" // A/B summary

	// Multi-item set types generated from one long passage.
	RC4142 Code = "RC41_42"
	RC4345 Code = "RC43_45"

	// Generic fallback MCQ, used when a caller pins an unmapped code.
	RCGeneric Code = "RC_GENERIC"
)

// All lists every generatable item type in code order.
var All = []Code{
	RC18, RC19, RC20, RC21, RC22, RC23, RC24, RC25, RC26, RC27,
	RC28, RC29, RC30, RC31, RC32, RC33, RC34, RC35, RC36, RC37,
	RC38, RC39, RC40, RC4142, RC4345, RCGeneric,
}

// Known reports whether code is a recognized item type.
func Known(code Code) bool {
	for _, c := range All {
		if c == code {
			return true
		}
	}
	return false
}

// Band classifies passage length. Short passages only support single-focus
// formats; set types need enough text for multiple sub-items.
type Band string

const (
	BandShort  Band = "short"  // <=150 chars: through the blank-clause boundary (RC33)
	BandMedium Band = "medium" // 151-199 chars: through the summary boundary (RC40)
	BandLong   Band = "long"   // >=200 chars: set types admitted
)

const (
	shortMax  = 150
	mediumMax = 199
)

// LengthBand returns the band for a passage, measured in runes.
func LengthBand(passage string) Band {
	n := utf8.RuneCountInString(passage)
	switch {
	case n <= shortMax:
		return BandShort
	case n <= mediumMax:
		return BandMedium
	default:
		return BandLong
	}
}

var (
	shortSet = codeSet(
		RC18, RC19, RC20, RC21, RC22, RC23, RC24, RC25, RC26,
		RC27, RC28, RC29, RC30, RC31, RC32, RC33,
	)
	mediumSet = codeSet(
		RC18, RC19, RC20, RC21, RC22, RC23, RC24, RC25, RC26,
		RC27, RC28, RC29, RC30, RC31, RC32, RC33, RC34, RC35,
		RC36, RC37, RC38, RC39, RC40,
	)
	longSet = codeSet(
		RC18, RC19, RC20, RC21, RC22, RC23, RC24, RC25, RC26,
		RC27, RC28, RC29, RC30, RC31, RC32, RC33, RC34, RC35,
		RC36, RC37, RC38, RC39, RC40, RC4142, RC4345,
	)
)

// Eligible reports whether code may be generated for a passage in band.
// RC_GENERIC is pin-only and never eligible through routing.
func Eligible(band Band, code Code) bool {
	switch band {
	case BandShort:
		return shortSet[code]
	case BandMedium:
		return mediumSet[code]
	default:
		return longSet[code]
	}
}

func codeSet(codes ...Code) map[Code]bool {
	m := make(map[Code]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}
