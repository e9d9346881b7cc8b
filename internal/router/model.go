package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
	"github.com/smilepat/csat-connectedu-company/internal/llm"
	"github.com/smilepat/csat-connectedu-company/internal/normalize"
)

// ErrModelUnavailable means the classification call failed; routing
// continues rule-only and marks the result degraded.
var ErrModelUnavailable = errors.New("model classifier unavailable")

// ErrMalformedClassification means the model answered but its output
// could not be used.
var ErrMalformedClassification = errors.New("malformed classification response")

const classifierSystem = "You are a cautious, rule-abiding CSAT item-type recommender. " +
	"Given a passage, recommend suitable RC types from the fixed whitelist. " +
	"Never generate an item. Return JSON ONLY (no prose, no markdown). " +
	"Be conservative in scoring; prefer precision over recall."

const classifierUserTmpl = `[PASSAGE]
%s

[RC_WHITELIST]
RC18, RC19, RC20, RC21, RC22, RC23, RC24, RC25, RC26, RC27, RC28, RC29, RC30,
RC31, RC32, RC33, RC34, RC35, RC36, RC37, RC38, RC39, RC40, RC41_42, RC43_45

[OUTPUT_FORMAT]
{"candidates": [{"type": "RC22", "fit": 0.85}, ...]}

[RULES]
- Output a single JSON object, nothing else.
- Every "type" must be unique and from the whitelist.
- "fit" is a float in [0, 1]; sort candidates by fit descending; at most 12.
- If nothing fits well, still return 3-5 plausible candidates with lower scores.`

// ModelClassifier asks the model gateway to score item-type fits for a
// passage.
type ModelClassifier struct {
	gateway *llm.Gateway
}

func NewModelClassifier(gateway *llm.Gateway) *ModelClassifier {
	return &ModelClassifier{gateway: gateway}
}

type modelCandidate struct {
	Type string  `json:"type"`
	Fit  float64 `json:"fit"`
}

// Classify returns per-type fit scores from the model. Any call failure
// maps to ErrModelUnavailable; unusable output to
// ErrMalformedClassification.
func (c *ModelClassifier) Classify(ctx context.Context, p *Passage) (map[itemtype.Code]float64, error) {
	ctx = llm.WithPurpose(ctx, "type_routing")

	text, err := c.gateway.Call(ctx, llm.Request{
		System: classifierSystem,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(classifierUserTmpl, p.Text)},
		},
		MaxTokens:   600,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	var parsed struct {
		Candidates []modelCandidate `json:"candidates"`
	}
	cleaned := normalize.Normalize(text)
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		repaired := normalize.RepairJSON(cleaned)
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedClassification, err)
		}
	}
	if len(parsed.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrMalformedClassification)
	}

	scores := make(map[itemtype.Code]float64, len(parsed.Candidates))
	for _, mc := range parsed.Candidates {
		code, ok := normalizeModelType(mc.Type)
		if !ok || mc.Fit < 0 || mc.Fit > 1 {
			continue
		}
		if mc.Fit > scores[code] {
			scores[code] = mc.Fit
		}
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: no usable candidates", ErrMalformedClassification)
	}
	return scores, nil
}

// normalizeModelType maps a raw model-emitted type onto a known code.
// Individual set members collapse onto their set type.
func normalizeModelType(raw string) (itemtype.Code, bool) {
	code := itemtype.Code(strings.ToUpper(strings.TrimSpace(raw)))
	switch code {
	case "RC41", "RC42":
		return itemtype.RC4142, true
	case "RC43", "RC44", "RC45":
		return itemtype.RC4345, true
	}
	if code == itemtype.RCGeneric {
		// Pin-only type; never a routing candidate.
		return "", false
	}
	if itemtype.Known(code) {
		return code, true
	}
	return "", false
}
