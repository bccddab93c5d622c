package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides read access to inventory and reviews.
type Store interface {
	Inventory(ctx context.Context) ([]Tool, error)
	Reviews(ctx context.Context) ([]Review, error)
}

// Querier is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore reads the catalog from the relational database.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithQuerier allows injecting mocks for tests.
func NewPostgresStoreWithQuerier(q Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

// Inventory returns all inventory rows ordered by name.
func (s *PostgresStore) Inventory(ctx context.Context) ([]Tool, error) {
	query := `
		SELECT id, name, daily_price, weekend_price, deposit, availability, quantity
		FROM inventory
		ORDER BY name
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: query inventory: %w", err)
	}
	defer rows.Close()

	var tools []Tool
	for rows.Next() {
		var t Tool
		if err := rows.Scan(&t.ID, &t.Name, &t.DailyPrice, &t.WeekendPrice, &t.Deposit, &t.Availability, &t.Quantity); err != nil {
			return nil, fmt.Errorf("catalog: scan inventory row: %w", err)
		}
		tools = append(tools, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate inventory: %w", err)
	}
	return tools, nil
}

// Reviews returns the newest reviews, capped at 12.
func (s *PostgresStore) Reviews(ctx context.Context) ([]Review, error) {
	query := `
		SELECT author, platform, text, url, COALESCE(date::text, created_at::text) AS date
		FROM reviews
		ORDER BY created_at DESC NULLS LAST
		LIMIT 12
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.Author, &r.Platform, &r.Text, &r.URL, &r.Date); err != nil {
			return nil, fmt.Errorf("catalog: scan review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate reviews: %w", err)
	}
	return reviews, nil
}
