package spec

import (
	"fmt"
	"strings"
)

type promptData struct {
	Code       string
	Title      string
	Difficulty string
	Topic      string
	Passage    string
	Interest   string
	MinWords   int
	MaxWords   int
}

// Assemble renders the system and user prompts for one generation
// request. Unset difficulty defaults to "medium" and unset topic to
// "random", matching the stems the templates were written against.
func Assemble(sp *Specification, ctx GenContext) (system, user string, err error) {
	data := promptData{
		Code:       string(sp.Code),
		Title:      sp.Title,
		Difficulty: strings.TrimSpace(ctx.Difficulty),
		Topic:      strings.TrimSpace(ctx.Topic),
		Passage:    strings.TrimSpace(ctx.Passage),
		Interest:   strings.TrimSpace(ctx.Interest),
		MinWords:   sp.MinWords,
		MaxWords:   sp.MaxWords,
	}
	if data.Difficulty == "" {
		data.Difficulty = "medium"
	}
	if data.Topic == "" {
		data.Topic = "random"
	}

	var b strings.Builder
	if err := sp.tmpl.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("render prompt for %s: %w", sp.Code, err)
	}

	system = basePreamble + "\n\n" + sp.System
	return system, b.String(), nil
}

// CorrectiveHint builds the retry message appended after a validation
// failure so the model can fix its previous output instead of starting
// over blind.
func CorrectiveHint(failure string) string {
	return fmt.Sprintf(
		"Your previous response failed validation: %s\n"+
			"Return the corrected item as ONLY a complete JSON object matching the required schema. "+
			"Do not include markdown fences or commentary.", failure)
}
