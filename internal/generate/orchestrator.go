// Package generate drives the item generation pipeline: route (or pin)
// an item type, load its spec, assemble prompts, call the model, repair
// and validate, retrying with a corrective hint until the attempt
// budget runs out.
package generate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smilepat/csat-connectedu-company/internal/llm"
	"github.com/smilepat/csat-connectedu-company/internal/normalize"
	"github.com/smilepat/csat-connectedu-company/internal/router"
	"github.com/smilepat/csat-connectedu-company/internal/spec"
	"github.com/smilepat/csat-connectedu-company/internal/validate"
)

// Config tunes the orchestrator.
type Config struct {
	// MaxAttempts bounds generation attempts per request. Default 3.
	MaxAttempts int

	// CallTimeout is the expected per-attempt budget; the overall
	// request deadline is MaxAttempts*CallTimeout plus OverallMargin.
	CallTimeout   time.Duration
	OverallMargin time.Duration

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard orchestrator settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		CallTimeout:   15 * time.Second,
		OverallMargin: 5 * time.Second,
		MaxTokens:     3000,
		Temperature:   0.7,
	}
}

// Orchestrator runs generation requests end to end.
type Orchestrator struct {
	registry *spec.Registry
	router   *router.TypeRouter
	gateway  *llm.Gateway
	cfg      Config
	logger   *slog.Logger
}

// New creates an Orchestrator. router may be nil when every request is
// expected to pin its item type.
func New(registry *spec.Registry, rt *router.TypeRouter, gateway *llm.Gateway, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultConfig().CallTimeout
	}
	if cfg.OverallMargin <= 0 {
		cfg.OverallMargin = DefaultConfig().OverallMargin
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{registry: registry, router: rt, gateway: gateway, cfg: cfg, logger: logger}
}

// Generate runs one request to a terminal Result. It never returns an
// error; failures are encoded in the envelope.
func (o *Orchestrator) Generate(ctx context.Context, req Request) Result {
	traceID := strings.TrimSpace(req.TraceID)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	if err := req.Validate(); err != nil {
		return Result{
			ErrorKind: ErrKindBadRequest,
			Message:   err.Error(),
			TraceID:   traceID,
		}
	}

	overall := time.Duration(o.cfg.MaxAttempts)*o.cfg.CallTimeout + o.cfg.OverallMargin
	ctx, cancel := context.WithTimeout(ctx, overall)
	defer cancel()

	ctx = llm.WithPurpose(ctx, "item_generation")

	sp, routing, errResult := o.resolveSpec(ctx, req, traceID)
	if errResult != nil {
		return *errResult
	}

	system, user, err := spec.Assemble(sp, spec.GenContext{
		Difficulty: req.Difficulty,
		Topic:      req.Topic,
		Passage:    spec.SanitizePassage(req.Passage, spec.SanitizeOptions{}),
		Interest:   req.Interest,
	})
	if err != nil {
		return Result{
			ItemType:  sp.Code,
			Routing:   routing,
			ErrorKind: ErrKindNoSpec,
			Message:   err.Error(),
			TraceID:   traceID,
		}
	}

	messages := []llm.Message{{Role: llm.RoleUser, Content: user}}

	var attempts []Attempt
	var lastKind ErrorKind
	var lastMsg string
	useFallback := false

	for n := 1; n <= o.cfg.MaxAttempts; n++ {
		if ctx.Err() != nil {
			return o.cancelled(sp, routing, attempts, traceID)
		}

		start := time.Now()
		provider := o.providerID(useFallback)

		text, callErr := o.call(ctx, useFallback, llm.Request{
			System:      system,
			Messages:    messages,
			MaxTokens:   o.cfg.MaxTokens,
			Temperature: o.cfg.Temperature,
		})
		if callErr != nil {
			if ctx.Err() != nil {
				attempts = append(attempts, Attempt{
					Number: n, Provider: provider, Stage: StateCalling,
					Error: ctx.Err().Error(), DurationMs: time.Since(start).Milliseconds(),
				})
				return o.cancelled(sp, routing, attempts, traceID)
			}

			attempts = append(attempts, Attempt{
				Number: n, Provider: provider, Stage: StateCalling,
				Error: callErr.Error(), DurationMs: time.Since(start).Milliseconds(),
			})
			lastKind, lastMsg = ErrKindModelCall, callErr.Error()

			// A failed call is the trigger for the provider switch:
			// remaining attempts go to the fallback when one exists.
			var mcf *llm.ErrModelCallFailed
			if errors.As(callErr, &mcf) && !useFallback && o.gateway.HasFallback() {
				useFallback = true
				o.logger.Warn("switching to fallback provider",
					"trace_id", traceID, "attempt", n, "reason", mcf.Reason)
			}
			continue
		}

		cleaned := normalize.Normalize(text)

		item, valErr := validate.Item(cleaned, sp)
		if valErr != nil {
			attempts = append(attempts, Attempt{
				Number: n, Provider: provider, Stage: StateValidating,
				Error: valErr.Error(), DurationMs: time.Since(start).Milliseconds(),
			})
			lastKind, lastMsg = ErrKindValidation, valErr.Error()

			// Show the model its own output plus what broke, so the
			// retry repairs rather than regenerates from scratch.
			messages = append(messages,
				llm.Message{Role: llm.RoleAssistant, Content: text},
				llm.Message{Role: llm.RoleUser, Content: spec.CorrectiveHint(valErr.Error())},
			)
			o.logger.Info("attempt failed validation",
				"trace_id", traceID, "attempt", n, "item_type", sp.Code, "error", valErr.Error())
			continue
		}

		attempts = append(attempts, Attempt{
			Number: n, Provider: provider, Stage: StateSucceeded,
			DurationMs: time.Since(start).Milliseconds(),
		})
		o.logger.Info("item generated",
			"trace_id", traceID, "item_type", sp.Code, "attempts", n)

		return Result{
			OK:       true,
			ItemType: sp.Code,
			Item:     item,
			Provider: provider,
			Attempts: attempts,
			Routing:  routing,
			Degraded: routing != nil && routing.Degraded,
			TraceID:  traceID,
		}
	}

	o.logger.Warn("generation exhausted attempt budget",
		"trace_id", traceID, "item_type", sp.Code, "attempts", len(attempts), "error_kind", lastKind)

	return Result{
		ItemType:  sp.Code,
		Attempts:  attempts,
		Routing:   routing,
		Degraded:  routing != nil && routing.Degraded,
		ErrorKind: lastKind,
		Message:   lastMsg,
		TraceID:   traceID,
	}
}

// resolveSpec pins or routes the item type. The third return value is
// non-nil when the request terminates here.
func (o *Orchestrator) resolveSpec(ctx context.Context, req Request, traceID string) (*spec.Specification, *router.Result, *Result) {
	if req.ItemType != "" {
		sp, ok := o.registry.Resolve(req.ItemType)
		if !ok {
			return nil, nil, &Result{
				ErrorKind: ErrKindNoSpec,
				Message:   "unknown item type " + req.ItemType,
				TraceID:   traceID,
			}
		}
		return sp, nil, nil
	}

	if o.router == nil {
		return nil, nil, &Result{
			ErrorKind: ErrKindNoSpec,
			Message:   "no item type pinned and routing is disabled",
			TraceID:   traceID,
		}
	}

	routing := o.router.Route(ctx, req.Passage, 0)
	for _, code := range routing.Types {
		if sp, ok := o.registry.Get(code); ok {
			return sp, &routing, nil
		}
	}
	return nil, &routing, &Result{
		Routing:   &routing,
		Degraded:  routing.Degraded,
		ErrorKind: ErrKindNoSpec,
		Message:   "routing produced no generatable item type",
		TraceID:   traceID,
	}
}

func (o *Orchestrator) call(ctx context.Context, useFallback bool, req llm.Request) (string, error) {
	if useFallback {
		return o.gateway.CallFallback(ctx, req)
	}
	return o.gateway.Call(ctx, req)
}

func (o *Orchestrator) providerID(useFallback bool) string {
	if useFallback {
		return o.gateway.FallbackModelID()
	}
	return o.gateway.PrimaryModelID()
}

func (o *Orchestrator) cancelled(sp *spec.Specification, routing *router.Result, attempts []Attempt, traceID string) Result {
	return Result{
		ItemType:  sp.Code,
		Attempts:  attempts,
		Routing:   routing,
		ErrorKind: ErrKindCancelled,
		Message:   "generation cancelled",
		TraceID:   traceID,
	}
}
