package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Item is a generated exam item persisted for later retrieval.
type Item struct {
	ID         string          `json:"id"`
	ItemType   string          `json:"item_type"`
	Difficulty string          `json:"difficulty,omitempty"`
	Provider   string          `json:"provider,omitempty"`
	TraceID    string          `json:"trace_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListOpts filters item listings.
type ListOpts struct {
	ItemType string // exact match, empty = all types
	Limit    int    // max results (0 = default 50)
}

// ItemRepo persists generated items.
type ItemRepo interface {
	// Save stores a new item. The item's ID must be set and unique.
	Save(ctx context.Context, item *Item) error

	// Get returns the item with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Item, error)

	// List returns items newest first.
	List(ctx context.Context, opts ListOpts) ([]*Item, error)
}

type itemRepo struct {
	db *sql.DB
}

func (r *itemRepo) Save(ctx context.Context, item *Item) error {
	if item.ID == "" {
		return errors.New("store: item id required")
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, item_type, difficulty, provider, trace_id, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ItemType, item.Difficulty, item.Provider, item.TraceID,
		string(item.Payload), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func (r *itemRepo) Get(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, item_type, difficulty, provider, trace_id, payload, created_at
		 FROM items WHERE id = ?`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (r *itemRepo) List(ctx context.Context, opts ListOpts) ([]*Item, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, item_type, difficulty, provider, trace_id, payload, created_at
		 FROM items`
	args := []any{}
	if opts.ItemType != "" {
		query += ` WHERE item_type = ?`
		args = append(args, opts.ItemType)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var payload string
	err := row.Scan(&item.ID, &item.ItemType, &item.Difficulty, &item.Provider,
		&item.TraceID, &payload, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.Payload = json.RawMessage(payload)
	return &item, nil
}
