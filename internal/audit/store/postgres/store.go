// Package postgres persists the reconciliation audit trail.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cdcaccount/internal/audit"
	"cdcaccount/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS reconciliation_audit (
	id            UUID PRIMARY KEY,
	occurred_at   TIMESTAMPTZ NOT NULL,
	uid           TEXT NOT NULL,
	action        TEXT NOT NULL,
	datacenter    TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	duplicate_uid TEXT NOT NULL DEFAULT '',
	reason        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS reconciliation_audit_uid_idx ON reconciliation_audit (uid);
`

// Store implements audit.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New ensures the audit schema exists and returns a Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Append implements audit.Store.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	const insert = `
		INSERT INTO reconciliation_audit
			(id, occurred_at, uid, action, datacenter, email, duplicate_uid, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, insert,
		uuid.New(),
		event.Timestamp,
		event.UID.String(),
		string(event.Action),
		event.Datacenter.String(),
		event.Email,
		event.DuplicateUID.String(),
		event.Reason,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByUID implements audit.Store. Events are returned oldest first.
func (s *Store) ListByUID(ctx context.Context, uid domain.UID) ([]audit.Event, error) {
	const query = `
		SELECT occurred_at, uid, action, datacenter, email, duplicate_uid, reason
		FROM reconciliation_audit
		WHERE uid = $1
		ORDER BY occurred_at`

	rows, err := s.pool.Query(ctx, query, uid.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e            audit.Event
			uidCol       string
			action       string
			datacenter   string
			duplicateUID string
		)
		if err := rows.Scan(&e.Timestamp, &uidCol, &action, &datacenter, &e.Email, &duplicateUID, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.UID = domain.UID(uidCol)
		e.Action = audit.Action(action)
		e.Datacenter = domain.Datacenter(datacenter)
		e.DuplicateUID = domain.UID(duplicateUID)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
