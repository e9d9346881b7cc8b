package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/smilepat/csat-connectedu-company/internal/llm"
)

// LLMRequestRepo records model API calls. Request and response bodies are
// deliberately not persisted; they can contain full passages and items.
type LLMRequestRepo struct {
	db *sql.DB
}

// AppendLLMRequest implements llm.RequestLog.
func (r *LLMRequestRepo) AppendLLMRequest(ctx context.Context, entry llm.RequestLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_requests
			(provider, model, purpose, latency_ms, input_tokens, output_tokens, success, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Provider, entry.Model, entry.Purpose, entry.LatencyMs,
		entry.InputTokens, entry.OutputTokens, entry.Success, entry.ErrorMessage,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

// Count returns the number of recorded requests, optionally filtered by purpose.
func (r *LLMRequestRepo) Count(ctx context.Context, purpose string) (int, error) {
	query := `SELECT COUNT(*) FROM llm_requests`
	args := []any{}
	if purpose != "" {
		query += ` WHERE purpose = ?`
		args = append(args, purpose)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count llm requests: %w", err)
	}
	return n, nil
}
