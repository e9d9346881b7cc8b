// Package normalize repairs raw model output before JSON parsing.
//
// Model responses routinely arrive wrapped in markdown code fences, with
// smart quotes, stray control characters, or Korean circled answer
// numerals (① through ⑤) where the schema wants plain digit strings.
// Normalize fixes all of these in one deterministic pass.
package normalize

import (
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var fenceRE = regexp.MustCompile("(?si)```(?:json)?\\s*(.*?)```")

// Normalize applies a fixed sequence of text repairs to raw model
// output. It is idempotent and never fails; callers always get a string
// back, repaired as far as the pipeline can take it.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripCodeFences(s)
	s = replaceSmartQuotes(s)
	s = stripControlChars(s)
	s = replaceCircledNumerals(s)
	return strings.TrimSpace(s)
}

// RepairJSON attempts a structural repair of malformed JSON text
// (trailing commas, missing quotes, truncated objects). On failure the
// input is returned unchanged so the parse error surfaces with the
// original payload.
func RepairJSON(s string) string {
	fixed, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return s
	}
	return fixed
}

// stripCodeFences unwraps ```json ... ``` blocks, keeping their content.
// A dangling open fence with no closer is dropped as well.
func stripCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	s = fenceRE.ReplaceAllString(s, "$1")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = ""
		}
	}
	return s
}

var smartQuotes = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

func replaceSmartQuotes(s string) string {
	return smartQuotes.Replace(s)
}

// stripControlChars drops C0 control characters except newline, carriage
// return and tab, which are legal inside the surrounding text.
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

var circledDigits = map[rune]rune{
	'①': '1', '②': '2', '③': '3', '④': '4', '⑤': '5',
}

// replaceCircledNumerals maps ①-⑤ to digit strings. The walk tracks
// whether it is inside a JSON string literal: inside, the numeral
// becomes a bare digit; outside, it becomes a quoted digit so values
// like `"correct_answer": ③` stay parseable.
func replaceCircledNumerals(s string) string {
	if !strings.ContainsAny(s, "①②③④⑤") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for _, r := range s {
		if inString {
			if escaped {
				escaped = false
				b.WriteRune(r)
				continue
			}
			switch r {
			case '\\':
				escaped = true
				b.WriteRune(r)
			case '"':
				inString = false
				b.WriteRune(r)
			default:
				if d, ok := circledDigits[r]; ok {
					b.WriteRune(d)
				} else {
					b.WriteRune(r)
				}
			}
			continue
		}

		switch {
		case r == '"':
			inString = true
			b.WriteRune(r)
		case circledDigits[r] != 0:
			b.WriteByte('"')
			b.WriteRune(circledDigits[r])
			b.WriteByte('"')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
