package spec

import (
	"regexp"
	"strings"
)

var (
	underlineTagRE  = regexp.MustCompile(`(?i)</?(?:u|ins)\b[^>]*>`)
	spanUnderlineRE = regexp.MustCompile(`(?i)<span\b[^>]*text-decoration\s*:\s*underline[^>]*>`)
	spanCloseRE     = regexp.MustCompile(`(?i)</span\s*>`)
	circledParenRE  = regexp.MustCompile(`\(\s*[①②③④⑤]\s*\)`)
	circledMarkRE   = regexp.MustCompile(`[①②③④⑤]\s*`)
	spaceRunRE      = regexp.MustCompile(`[ \t]+`)
	blankLineRunRE  = regexp.MustCompile(`\n{3,}`)
)

// SanitizeOptions controls which source markup SanitizePassage removes.
type SanitizeOptions struct {
	// StripCircled removes ①-⑤ option markers left over from a source
	// exam item, keeping the adjacent words.
	StripCircled bool

	// StripUnderlines removes <u>/<ins>/underline-span tags, keeping
	// their text.
	StripUnderlines bool
}

// SanitizePassage cleans a caller-supplied passage before it is embedded
// in a prompt. Whitespace runs are always collapsed; markup removal is
// opt-in because some item types reuse the markers they would strip.
func SanitizePassage(s string, opts SanitizeOptions) string {
	if opts.StripUnderlines {
		s = spanUnderlineRE.ReplaceAllString(s, "")
		s = spanCloseRE.ReplaceAllString(s, "")
		s = underlineTagRE.ReplaceAllString(s, "")
	}
	if opts.StripCircled {
		s = circledParenRE.ReplaceAllString(s, "")
		s = circledMarkRE.ReplaceAllString(s, "")
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRunRE.ReplaceAllString(s, " ")
	s = blankLineRunRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
