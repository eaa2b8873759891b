// Package postgres persists bindings in a PostgreSQL table:
//
//	CREATE TABLE bindings (domain text PRIMARY KEY, did text NOT NULL)
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"atproto-handle/internal/claims/models"
	"atproto-handle/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS bindings (
	domain TEXT PRIMARY KEY,
	did    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS bindings_did_idx ON bindings (did);
`

// Store reads and replaces the full binding set. The database is the cache
// of record, so Reload has nothing to refresh beyond checking connectivity.
type Store struct {
	db *sql.DB
}

// New constructs a store over db. Call Migrate once at startup.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the bindings table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate bindings: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context) ([]models.Binding, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT domain, did FROM bindings ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("read bindings: %w", err)
	}
	defer rows.Close()

	var out []models.Binding
	for rows.Next() {
		var b models.Binding
		if err := rows.Scan(&b.Domain, &b.DID); err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bindings: %w", err)
	}
	return out, nil
}

// Write replaces the table contents with bindings in one transaction.
func (s *Store) Write(ctx context.Context, bindings []models.Binding) error {
	domains := make([]string, 0, len(bindings))
	dids := make([]string, 0, len(bindings))
	for _, b := range models.FromMap(models.ToMap(bindings)) {
		domains = append(domains, b.Domain)
		dids = append(dids, b.DID)
	}

	return tx.Run(ctx, s.db, func(ctx context.Context, sqlTx *sql.Tx) error {
		if _, err := sqlTx.ExecContext(ctx, `DELETE FROM bindings`); err != nil {
			return fmt.Errorf("clear bindings: %w", err)
		}
		if len(domains) == 0 {
			return nil
		}
		_, err := sqlTx.ExecContext(ctx,
			`INSERT INTO bindings (domain, did) SELECT unnest($1::text[]), unnest($2::text[])`,
			pq.Array(domains), pq.Array(dids),
		)
		if err != nil {
			return fmt.Errorf("insert bindings batch: %w", err)
		}
		return nil
	})
}

func (s *Store) Reload(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("reload bindings: %w", err)
	}
	return nil
}
