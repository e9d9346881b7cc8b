package llm

import (
	"fmt"
	"time"
)

// Failure reasons carried by ErrModelCallFailed.
const (
	ReasonTimeout   = "timeout"
	ReasonTransport = "transport"
	ReasonRateLimit = "rate_limit"
	ReasonEmpty     = "empty"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrModelCallFailed is the uniform failure the gateway reports for any
// call that did not yield usable text: timeouts, transport errors, rate
// limits and empty responses all map onto it so the orchestrator can
// make its retry and fallback decisions from a single error shape.
type ErrModelCallFailed struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ErrModelCallFailed) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model call failed (%s, %s): %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("model call failed (%s, %s)", e.Provider, e.Reason)
}

func (e *ErrModelCallFailed) Unwrap() error { return e.Err }
