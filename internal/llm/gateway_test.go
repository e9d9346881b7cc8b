package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGateway_Call_ReturnsText(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: `{"question":"q"}`})
	g := NewGateway(mock, nil, time.Second)

	text, err := g.Call(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "go"}},
	})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if text != `{"question":"q"}` {
		t.Errorf("text = %q", text)
	}
}

func TestGateway_Call_EmptyTextIsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "   \n"})
	g := NewGateway(mock, nil, time.Second)

	_, err := g.Call(context.Background(), Request{})
	var callErr *ErrModelCallFailed
	if !errors.As(err, &callErr) {
		t.Fatalf("expected ErrModelCallFailed, got %v", err)
	}
	if callErr.Reason != ReasonEmpty {
		t.Errorf("reason = %q, want %q", callErr.Reason, ReasonEmpty)
	}
}

func TestGateway_Call_RateLimitReason(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: time.Second}})
	g := NewGateway(mock, nil, time.Second)

	_, err := g.Call(context.Background(), Request{})
	var callErr *ErrModelCallFailed
	if !errors.As(err, &callErr) {
		t.Fatalf("expected ErrModelCallFailed, got %v", err)
	}
	if callErr.Reason != ReasonRateLimit {
		t.Errorf("reason = %q, want %q", callErr.Reason, ReasonRateLimit)
	}
}

func TestGateway_Call_DoesNotRetry(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Text: "recovered"},
	)
	g := NewGateway(mock, nil, time.Second)

	_, err := g.Call(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error on first call")
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider called %d times, want 1", mock.CallCount())
	}
}

func TestGateway_CallFallback_NoneConfigured(t *testing.T) {
	g := NewGateway(NewMockProvider(), nil, time.Second)

	if g.HasFallback() {
		t.Error("HasFallback() = true, want false")
	}
	_, err := g.CallFallback(context.Background(), Request{})
	var callErr *ErrModelCallFailed
	if !errors.As(err, &callErr) {
		t.Fatalf("expected ErrModelCallFailed, got %v", err)
	}
}

func TestGateway_CallFallback_UsesFallbackProvider(t *testing.T) {
	primary := NewMockProvider()
	fallback := NewMockProvider(MockResponse{Text: "from fallback"})
	g := NewGateway(primary, fallback, time.Second)

	text, err := g.CallFallback(context.Background(), Request{})
	if err != nil {
		t.Fatalf("CallFallback returned error: %v", err)
	}
	if text != "from fallback" {
		t.Errorf("text = %q", text)
	}
	if primary.CallCount() != 0 {
		t.Errorf("primary called %d times, want 0", primary.CallCount())
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider should validate: %v", err)
	}

	cfg.Provider = "anthropic"
	if err := cfg.Validate(); err == nil {
		t.Error("anthropic without key should fail validation")
	}

	cfg.Provider = "mock"
	cfg.FallbackProvider = "mock"
	if err := cfg.Validate(); err == nil {
		t.Error("fallback equal to primary should fail validation")
	}
}
