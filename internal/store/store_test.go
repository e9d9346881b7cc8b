package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/smilepat/csat-connectedu-company/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"items", "llm_requests"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is only meaningful with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestItemSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Items()
	ctx := context.Background()

	payload := json.RawMessage(`{"question":"q","correct_answer":"3"}`)
	err := repo.Save(ctx, &Item{
		ID:         "item-1",
		ItemType:   "RC22",
		Difficulty: "medium",
		Provider:   "anthropic",
		TraceID:    "trace-1",
		Payload:    payload,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, "item-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ItemType != "RC22" || got.Difficulty != "medium" {
		t.Errorf("item = %+v", got)
	}
	if string(got.Payload) != string(payload) {
		t.Errorf("payload = %s", got.Payload)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set on save")
	}
}

func TestItemGetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Items().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestItemSaveRequiresID(t *testing.T) {
	s := openTestStore(t)

	err := s.Items().Save(context.Background(), &Item{ItemType: "RC22", Payload: json.RawMessage(`{}`)})
	if err == nil {
		t.Fatal("save without id should fail")
	}
}

func TestItemListNewestFirstWithFilter(t *testing.T) {
	s := openTestStore(t)
	repo := s.Items()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	saved := []struct {
		id       string
		itemType string
		offset   time.Duration
	}{
		{"a", "RC22", 0},
		{"b", "RC31", time.Minute},
		{"c", "RC22", 2 * time.Minute},
	}
	for _, sv := range saved {
		err := repo.Save(ctx, &Item{
			ID:        sv.id,
			ItemType:  sv.itemType,
			Payload:   json.RawMessage(`{}`),
			CreatedAt: base.Add(sv.offset),
		})
		if err != nil {
			t.Fatalf("save %s: %v", sv.id, err)
		}
	}

	all, err := repo.List(ctx, ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" {
		t.Errorf("list order wrong: %+v", all)
	}

	rc22, err := repo.List(ctx, ListOpts{ItemType: "RC22"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(rc22) != 2 {
		t.Errorf("filtered count = %d, want 2", len(rc22))
	}

	limited, err := repo.List(ctx, ListOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited count = %d, want 1", len(limited))
	}
}

func TestAppendLLMRequest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// The repo must satisfy the provider-side interface.
	var log llm.RequestLog = s.RequestLog()

	err := log.AppendLLMRequest(ctx, llm.RequestLogEntry{
		Provider:     "anthropic",
		Model:        "claude-haiku",
		Purpose:      "item_generation",
		LatencyMs:    120,
		InputTokens:  800,
		OutputTokens: 400,
		Success:      true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = log.AppendLLMRequest(ctx, llm.RequestLogEntry{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Purpose:      "type_routing",
		Success:      false,
		ErrorMessage: "rate limited",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	n, err := s.RequestLog().Count(ctx, "")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	routing, err := s.RequestLog().Count(ctx, "type_routing")
	if err != nil {
		t.Fatalf("count filtered: %v", err)
	}
	if routing != 1 {
		t.Errorf("routing count = %d, want 1", routing)
	}
}
