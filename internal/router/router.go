// Package router picks candidate item types for a passage by fusing a
// rule-based classifier with a model-based one. Rules contribute 45%,
// the model 55%; a missing source contributes zero. A passage-length
// gate then filters out types the passage is too short to carry.
package router

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
)

const (
	ruleWeight  = 0.45
	modelWeight = 0.55

	defaultTopK            = 5
	maxTopK                = 5
	defaultClassifyTimeout = 10 * time.Second
)

// Candidate is one scored item type in a routing result.
type Candidate struct {
	Type       itemtype.Code `json:"type"`
	Score      float64       `json:"score"`
	RuleScore  float64       `json:"rule_score"`
	ModelScore float64       `json:"model_score"`
}

// Result is the outcome of routing one passage.
type Result struct {
	// Types is the final ranked recommendation, at most topK entries.
	Types []itemtype.Code `json:"types"`

	// Candidates is the full fused ranking behind Types.
	Candidates []Candidate `json:"candidates"`

	Band itemtype.Band `json:"band"`

	// Degraded is true when the model classifier did not contribute
	// and the ranking is rule-only.
	Degraded bool `json:"degraded"`

	// GateApplied is false when the length gate would have removed
	// every candidate and the ungated ranking was used instead.
	GateApplied bool `json:"gate_applied"`

	RuleCount  int `json:"rule_count"`
	ModelCount int `json:"model_count"`
}

// TypeRouter fuses rule and model classification over a passage.
type TypeRouter struct {
	classifier *ModelClassifier
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a TypeRouter. classifier may be nil, which forces
// rule-only (degraded) routing.
func New(classifier *ModelClassifier, timeout time.Duration, logger *slog.Logger) *TypeRouter {
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TypeRouter{classifier: classifier, timeout: timeout, logger: logger}
}

type classifyOutcome struct {
	scores map[itemtype.Code]float64
	err    error
}

// Route scores a passage and returns the ranked candidate types.
// The model classifier runs concurrently with rule evaluation; its
// failure never fails the route, it only degrades it.
func (r *TypeRouter) Route(ctx context.Context, passage string, topK int) Result {
	p := NewPassage(passage)

	var modelCh chan classifyOutcome
	if r.classifier != nil {
		modelCh = make(chan classifyOutcome, 1)
		classifyCtx, cancel := context.WithTimeout(ctx, r.timeout)
		go func() {
			defer cancel()
			scores, err := r.classifier.Classify(classifyCtx, p)
			modelCh <- classifyOutcome{scores: scores, err: err}
		}()
	}

	ruleScores := RuleScores(p)

	var modelScores map[itemtype.Code]float64
	degraded := true
	if modelCh != nil {
		out := <-modelCh
		if out.err != nil {
			r.logger.Warn("model classification unavailable, routing rule-only",
				"error", out.err)
		} else {
			modelScores = out.scores
			degraded = false
		}
	}

	candidates := fuse(ruleScores, modelScores)
	band := itemtype.LengthBand(p.Text)

	gated := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if itemtype.Eligible(band, c.Type) {
			gated = append(gated, c)
		}
	}

	gateApplied := true
	final := gated
	if len(final) == 0 {
		final = candidates
		gateApplied = false
	}

	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}
	n := topK
	if n > len(final) {
		n = len(final)
	}
	types := make([]itemtype.Code, n)
	for i := 0; i < n; i++ {
		types[i] = final[i].Type
	}

	return Result{
		Types:       types,
		Candidates:  final,
		Band:        band,
		Degraded:    degraded,
		GateApplied: gateApplied,
		RuleCount:   len(ruleScores),
		ModelCount:  len(modelScores),
	}
}

// fuse merges the two score maps with the fixed 45/55 weighting and
// sorts the result: fused score descending, then rule score descending,
// then code ascending.
func fuse(ruleScores, modelScores map[itemtype.Code]float64) []Candidate {
	seen := make(map[itemtype.Code]bool, len(ruleScores)+len(modelScores))
	out := make([]Candidate, 0, len(ruleScores)+len(modelScores))

	add := func(t itemtype.Code) {
		if seen[t] {
			return
		}
		seen[t] = true
		c := Candidate{
			Type:       t,
			RuleScore:  ruleScores[t],
			ModelScore: modelScores[t],
		}
		c.Score = ruleWeight*c.RuleScore + modelWeight*c.ModelScore
		out = append(out, c)
	}
	for t := range ruleScores {
		add(t)
	}
	for t := range modelScores {
		add(t)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].RuleScore != out[j].RuleScore {
			return out[i].RuleScore > out[j].RuleScore
		}
		return out[i].Type < out[j].Type
	})
	return out
}
