package router

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	wordRE     = regexp.MustCompile(`[A-Za-z']+|\d+%?`)
	sentenceRE = regexp.MustCompile(`[.!?]+(\s|$)`)
)

// Passage wraps a candidate passage with the metrics the rule set keys
// on, computed once up front.
type Passage struct {
	Text  string
	Lower string

	Runes      int // rune length, the unit the length bands use
	Words      int
	Sentences  int
	Paragraphs int
}

// NewPassage precomputes passage metrics for rule evaluation.
func NewPassage(text string) *Passage {
	text = strings.TrimSpace(text)

	sentences := len(sentenceRE.FindAllString(text, -1))
	if sentences == 0 && text != "" {
		sentences = 1
	}

	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	return &Passage{
		Text:       text,
		Lower:      strings.ToLower(text),
		Runes:      utf8.RuneCountInString(text),
		Words:      len(wordRE.FindAllString(text, -1)),
		Sentences:  sentences,
		Paragraphs: paragraphs,
	}
}
