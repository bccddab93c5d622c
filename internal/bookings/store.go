package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hokkystyle/toolrent-backend/internal/intake"
)

// Store is the persistence contract the intake pipeline consumes.
// Implementations are best-effort: a failed save is abandoned, never retried.
type Store = intake.Store

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore writes bookings to the relational database.
type PostgresStore struct {
	db Querier
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = NoopStore{}
)

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithQuerier allows injecting mocks for tests.
func NewPostgresStoreWithQuerier(q Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

// Save resolves the canonical tool name, inserts the booking row and returns
// the generated id together with the resolved name.
func (s *PostgresStore) Save(ctx context.Context, sub *intake.Submission) (*intake.SavedBooking, error) {
	var toolName *string
	err := s.db.QueryRow(ctx, `SELECT name FROM inventory WHERE id = $1`, sub.ToolID).Scan(&toolName)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bookings: resolve tool name: %w", err)
	}

	addons, err := json.Marshal(sub.Addons)
	if err != nil {
		return nil, fmt.Errorf("bookings: encode addons: %w", err)
	}

	query := `
		INSERT INTO bookings (customer_name, contact, tool_id, tool_name, date_from, date_to, notes, addons)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, tool_name
	`
	var saved intake.SavedBooking
	var savedName *string
	if err := s.db.QueryRow(ctx, query,
		sub.Name,
		sub.Contact,
		sub.ToolID,
		toolName,
		nullable(sub.DateFrom),
		nullable(sub.DateTo),
		sub.Notes,
		addons,
	).Scan(&saved.ID, &savedName); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}
	if savedName != nil {
		saved.ToolName = *savedName
	}
	return &saved, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NoopStore is substituted when no database is configured.
type NoopStore struct{}

// Save reports nothing persisted.
func (NoopStore) Save(ctx context.Context, sub *intake.Submission) (*intake.SavedBooking, error) {
	return nil, nil
}
