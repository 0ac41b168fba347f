package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tr event.TxEventRepo) error) error {
	return runTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&txRepo{tx: tx})
	})
}

// runTx runs fn in a READ COMMITTED transaction and commits when fn
// returns nil.
func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return err
	}

	defer func() {
		// Roll back if fn panics so the tx is not leaked.
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

// GetByIDForUpdate locks the event row until the transaction ends.
func (r *txRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Event, error) {
	return scanEventRow(r.tx.QueryRowContext(ctx, selectEventForUpdateSQL, id))
}

func (r *txRepo) Update(ctx context.Context, e *domain.Event) error {
	_, err := r.tx.ExecContext(ctx, updateEventSQL,
		e.ID, e.EventDate, string(e.State), e.PublishedOn,
	)
	return err
}

const insertOutboxSQL = `
INSERT INTO event_outbox (
  message_id, routing_key, body, created_at, status, next_retry_at
) VALUES ($1, $2, $3::jsonb, $4, 'pending', $4)
`

func (r *txRepo) InsertOutbox(ctx context.Context, msg event.OutboxMessage) error {
	// JSON goes in as text cast to jsonb for lib/pq.
	_, err := r.tx.ExecContext(ctx, insertOutboxSQL,
		msg.MessageID,
		msg.RoutingKey,
		string(msg.Body),
		msg.CreatedAt.UTC(),
	)
	return err
}
