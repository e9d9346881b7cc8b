package generate

import (
	"fmt"
	"strings"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
	"github.com/smilepat/csat-connectedu-company/internal/router"
)

// State names a step of the generation pipeline. Attempts walk
// ROUTING → SPEC_LOADED → PROMPT_BUILT → CALLING → NORMALIZING →
// VALIDATING and end in SUCCEEDED, RETRYING or FAILED.
type State string

const (
	StateRouting     State = "ROUTING"
	StateSpecLoaded  State = "SPEC_LOADED"
	StatePromptBuilt State = "PROMPT_BUILT"
	StateCalling     State = "CALLING"
	StateNormalizing State = "NORMALIZING"
	StateValidating  State = "VALIDATING"
	StateRetrying    State = "RETRYING"
	StateSucceeded   State = "SUCCEEDED"
	StateFailed      State = "FAILED"
)

// ErrorKind classifies a terminal failure.
type ErrorKind string

const (
	ErrKindBadRequest ErrorKind = "bad_request"
	ErrKindNoSpec     ErrorKind = "no_spec"
	ErrKindModelCall  ErrorKind = "model_call_failed"
	ErrKindValidation ErrorKind = "validation_failed"
	ErrKindCancelled  ErrorKind = "cancelled"
)

var validDifficulties = map[string]bool{"": true, "easy": true, "medium": true, "hard": true}

// Request is one item generation request.
type Request struct {
	// ItemType optionally pins the item type, bypassing routing.
	ItemType string `json:"item_type,omitempty"`

	Difficulty string `json:"difficulty,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Passage    string `json:"passage,omitempty"`
	Interest   string `json:"interest,omitempty"`

	TraceID string `json:"trace_id,omitempty"`
}

const maxPassageRunes = 6000

// Validate rejects requests the pipeline cannot serve.
func (r *Request) Validate() error {
	if !validDifficulties[strings.ToLower(strings.TrimSpace(r.Difficulty))] {
		return fmt.Errorf("difficulty must be easy, medium or hard, got %q", r.Difficulty)
	}
	if len([]rune(r.Passage)) > maxPassageRunes {
		return fmt.Errorf("passage exceeds %d characters", maxPassageRunes)
	}
	if r.ItemType == "" && strings.TrimSpace(r.Passage) == "" {
		return fmt.Errorf("either item_type or passage is required")
	}
	return nil
}

// Attempt records one generation attempt for the result envelope.
type Attempt struct {
	Number     int    `json:"number"`
	Provider   string `json:"provider"`
	Stage      State  `json:"stage"` // stage that failed, or SUCCEEDED
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Result is the terminal envelope of one generation run.
type Result struct {
	OK       bool           `json:"ok"`
	ItemType itemtype.Code  `json:"item_type,omitempty"`
	Item     map[string]any `json:"item,omitempty"`
	Provider string         `json:"provider,omitempty"`

	Attempts []Attempt `json:"attempts,omitempty"`

	// Routing is present when the item type was routed, not pinned.
	Routing *router.Result `json:"routing,omitempty"`

	// Degraded mirrors Routing.Degraded for quick filtering.
	Degraded bool `json:"degraded,omitempty"`

	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Message   string    `json:"message,omitempty"`
	TraceID   string    `json:"trace_id"`
}
