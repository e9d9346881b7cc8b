package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Gateway issues single model calls with a hard per-call deadline and
// maps every failure onto ErrModelCallFailed. It never retries: the
// generation orchestrator owns attempt counting and provider switching,
// so the gateway's job is one call, one answer or one uniform error.
type Gateway struct {
	primary  Provider
	fallback Provider
	timeout  time.Duration
}

// NewGateway creates a Gateway over a primary and an optional fallback
// provider. fallback may be nil. A non-positive timeout falls back to
// the default call deadline.
func NewGateway(primary, fallback Provider, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultConfig().CallTimeout
	}
	return &Gateway{primary: primary, fallback: fallback, timeout: timeout}
}

// Call sends the request to the primary provider and returns the raw
// response text.
func (g *Gateway) Call(ctx context.Context, req Request) (string, error) {
	return g.call(ctx, g.primary, req)
}

// CallFallback sends the request to the fallback provider. It returns
// ErrModelCallFailed when no fallback is configured.
func (g *Gateway) CallFallback(ctx context.Context, req Request) (string, error) {
	if g.fallback == nil {
		return "", &ErrModelCallFailed{
			Provider: "none",
			Reason:   ReasonTransport,
			Err:      errors.New("no fallback provider configured"),
		}
	}
	return g.call(ctx, g.fallback, req)
}

// HasFallback reports whether a fallback provider is configured.
func (g *Gateway) HasFallback() bool {
	return g.fallback != nil
}

// PrimaryModelID returns the primary provider's model identifier.
func (g *Gateway) PrimaryModelID() string {
	return g.primary.ModelID()
}

// FallbackModelID returns the fallback provider's model identifier, or
// "" when no fallback is configured.
func (g *Gateway) FallbackModelID() string {
	if g.fallback == nil {
		return ""
	}
	return g.fallback.ModelID()
}

func (g *Gateway) call(ctx context.Context, p Provider, req Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := p.Generate(callCtx, req)
	if err != nil {
		return "", &ErrModelCallFailed{
			Provider: p.ModelID(),
			Reason:   classifyFailure(callCtx, err),
			Err:      err,
		}
	}

	if strings.TrimSpace(resp.Text) == "" {
		return "", &ErrModelCallFailed{
			Provider: p.ModelID(),
			Reason:   ReasonEmpty,
			Err:      errors.New("provider returned empty text"),
		}
	}

	return resp.Text, nil
}

func classifyFailure(ctx context.Context, err error) string {
	var rateLimit *ErrRateLimit
	switch {
	case errors.As(err, &rateLimit):
		return ReasonRateLimit
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonTransport
	}
}
