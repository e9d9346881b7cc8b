package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a named Provider from configuration, wrapped with
// request logging when log is non-nil.
func NewProvider(ctx context.Context, name string, cfg Config, log RequestLog) (Provider, error) {
	var base Provider
	var err error

	switch name {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	if log != nil {
		base = WithLogging(base, log)
	}

	return base, nil
}

// NewGatewayFromConfig builds a Gateway from configuration: the configured primary
// provider plus the optional fallback provider.
func NewGatewayFromConfig(ctx context.Context, cfg Config, log RequestLog) (*Gateway, error) {
	primary, err := NewProvider(ctx, cfg.Provider, cfg, log)
	if err != nil {
		return nil, err
	}

	var fallback Provider
	if cfg.FallbackProvider != "" {
		fallback, err = NewProvider(ctx, cfg.FallbackProvider, cfg, log)
		if err != nil {
			return nil, err
		}
	}

	return NewGateway(primary, fallback, cfg.CallTimeout), nil
}
