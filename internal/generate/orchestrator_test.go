package generate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
	"github.com/smilepat/csat-connectedu-company/internal/llm"
	"github.com/smilepat/csat-connectedu-company/internal/router"
	"github.com/smilepat/csat-connectedu-company/internal/spec"
)

const goodItem = `{
	"question": "다음 글의 요지로 가장 적절한 것은?",
	"passage": "A passage about city growth.",
	"options": ["하나", "둘", "셋", "넷", "다섯"],
	"correct_answer": "1",
	"explanation": "해설"
}`

const badItem = `{
	"question": "다음 글의 요지로 가장 적절한 것은?",
	"passage": "A passage about city growth.",
	"options": ["하나", "둘", "셋", "넷"],
	"correct_answer": "1",
	"explanation": "해설"
}`

func testRegistry(t *testing.T) *spec.Registry {
	t.Helper()
	r, err := spec.Load()
	if err != nil {
		t.Fatalf("spec.Load: %v", err)
	}
	return r
}

func newOrchestrator(t *testing.T, primary, fallback llm.Provider) *Orchestrator {
	t.Helper()
	gw := llm.NewGateway(primary, fallback, time.Second)
	return New(testRegistry(t), nil, gw, Config{
		MaxAttempts: 3,
		CallTimeout: time.Second,
	}, nil)
}

func TestGenerate_PinnedFirstAttemptSucceeds(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodItem})
	o := newOrchestrator(t, mock, nil)

	res := o.Generate(context.Background(), Request{ItemType: "RC22"})
	if !res.OK {
		t.Fatalf("Generate failed: %s %s", res.ErrorKind, res.Message)
	}
	if res.ItemType != itemtype.RC22 {
		t.Errorf("ItemType = %s", res.ItemType)
	}
	if len(res.Attempts) != 1 || res.Attempts[0].Stage != StateSucceeded {
		t.Errorf("attempts = %+v", res.Attempts)
	}
	if res.TraceID == "" {
		t.Error("trace id should be assigned")
	}
	if res.Routing != nil {
		t.Error("pinned generation should carry no routing meta")
	}
}

func TestGenerate_ValidationRetryCarriesCorrectiveHint(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: badItem},
		llm.MockResponse{Text: goodItem},
	)
	o := newOrchestrator(t, mock, nil)

	res := o.Generate(context.Background(), Request{ItemType: "RC22"})
	if !res.OK {
		t.Fatalf("Generate failed: %s %s", res.ErrorKind, res.Message)
	}
	if len(res.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(res.Attempts))
	}
	if res.Attempts[0].Stage != StateValidating {
		t.Errorf("first attempt stage = %s, want VALIDATING", res.Attempts[0].Stage)
	}

	// The retry request must include the failed output and a hint.
	second := mock.Calls[1]
	if len(second.Messages) != 3 {
		t.Fatalf("retry message count = %d, want 3", len(second.Messages))
	}
	if second.Messages[1].Role != llm.RoleAssistant {
		t.Errorf("retry should replay the model's own output")
	}
	if !strings.Contains(second.Messages[2].Content, "failed validation") {
		t.Errorf("corrective hint missing: %q", second.Messages[2].Content)
	}
}

func TestGenerate_ExhaustsAttemptBudget(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: badItem},
		llm.MockResponse{Text: badItem},
		llm.MockResponse{Text: badItem},
	)
	o := newOrchestrator(t, mock, nil)

	res := o.Generate(context.Background(), Request{ItemType: "RC22"})
	if res.OK {
		t.Fatal("should have failed")
	}
	if res.ErrorKind != ErrKindValidation {
		t.Errorf("error kind = %s, want validation_failed", res.ErrorKind)
	}
	if len(res.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(res.Attempts))
	}
	if res.Attempts[2].Number != 3 {
		t.Errorf("last attempt number = %d, want 3", res.Attempts[2].Number)
	}
}

func TestGenerate_SwitchesToFallbackAfterCallFailure(t *testing.T) {
	primary := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	fallback := llm.NewMockProvider(llm.MockResponse{Text: goodItem})
	o := newOrchestrator(t, primary, fallback)

	res := o.Generate(context.Background(), Request{ItemType: "RC22"})
	if !res.OK {
		t.Fatalf("Generate failed: %s %s", res.ErrorKind, res.Message)
	}
	if primary.CallCount() != 1 {
		t.Errorf("primary called %d times, want 1", primary.CallCount())
	}
	if fallback.CallCount() != 1 {
		t.Errorf("fallback called %d times, want 1", fallback.CallCount())
	}
	if res.Attempts[0].Stage != StateCalling || res.Attempts[0].Error == "" {
		t.Errorf("first attempt should record the call failure: %+v", res.Attempts[0])
	}
}

func TestGenerate_BadRequest(t *testing.T) {
	o := newOrchestrator(t, llm.NewMockProvider(), nil)

	res := o.Generate(context.Background(), Request{ItemType: "RC22", Difficulty: "extreme"})
	if res.OK || res.ErrorKind != ErrKindBadRequest {
		t.Errorf("result = %+v, want bad_request", res)
	}

	res = o.Generate(context.Background(), Request{})
	if res.OK || res.ErrorKind != ErrKindBadRequest {
		t.Errorf("empty request should be bad_request, got %+v", res)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOrchestrator(t, llm.NewMockProvider(llm.MockResponse{Text: goodItem}), nil)
	res := o.Generate(ctx, Request{ItemType: "RC22"})
	if res.OK {
		t.Fatal("cancelled generation must not succeed")
	}
	if res.ErrorKind != ErrKindCancelled {
		t.Errorf("error kind = %s, want cancelled", res.ErrorKind)
	}
}

func TestGenerate_RoutedRequestUsesRouter(t *testing.T) {
	gen := llm.NewMockProvider(llm.MockResponse{Text: goodItem})
	gw := llm.NewGateway(gen, nil, time.Second)
	rt := router.New(nil, time.Second, nil)
	o := New(testRegistry(t), rt, gw, Config{MaxAttempts: 3, CallTimeout: time.Second}, nil)

	passage := "Many people believe that cities grow because of geography alone. " +
		"However, research on urban development suggests a different picture. " +
		"Institutions and trade networks shape where people settle. " +
		"Therefore, policy choices often matter more than rivers. " +
		"As a result, we should study governance as carefully as maps."

	res := o.Generate(context.Background(), Request{Passage: passage})
	if !res.OK {
		t.Fatalf("Generate failed: %s %s", res.ErrorKind, res.Message)
	}
	if res.Routing == nil {
		t.Fatal("routed generation should carry routing meta")
	}
	if !res.Degraded {
		t.Error("rule-only routing should surface as degraded")
	}
	if res.ItemType == "" {
		t.Error("item type should come from routing")
	}
}
