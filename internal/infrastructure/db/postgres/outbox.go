package postgres

import (
	"context"
	"database/sql"
	"math"
	"math/rand"
	"time"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/metrics"
	zlog "github.com/rs/zerolog/log"
)

type outboxRow struct {
	ID         int64
	MessageID  string
	RoutingKey string
	Body       []byte
	Attempts   int
}

// SKIP LOCKED lets several workers poll the same table. A 'processing'
// row whose reservation has expired belongs to a worker that never marked
// it, so it is claimed again.
const selectOutboxClaimsSQL = `
SELECT id, message_id, routing_key, body, attempts
FROM event_outbox
WHERE status IN ('pending', 'processing')
  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY next_retry_at ASC, created_at ASC
LIMIT $1
FOR UPDATE SKIP LOCKED
`

const updateOutboxClaimSQL = `
UPDATE event_outbox
SET next_retry_at = $2,
    status = 'processing'
WHERE id = $1
`

const markOutboxSentSQL = `
UPDATE event_outbox
SET status = 'sent',
    sent_at = $2,
    last_error = NULL
WHERE id = $1
`

const markOutboxFailedSQL = `
UPDATE event_outbox
SET status = 'pending',
    attempts = attempts + 1,
    next_retry_at = $2,
    last_error = $3
WHERE id = $1
`

const markOutboxDeadSQL = `
UPDATE event_outbox
SET status = 'dead',
    attempts = attempts + 1,
    last_error = $2
WHERE id = $1
`

const maxAttempts = 10

// StartOutboxWorker relays pending outbox rows to pub until ctx is done.
// Rows are claimed in a short transaction, published without holding locks,
// then marked sent, retried with backoff, or dead after maxAttempts.
func (r *Repo) StartOutboxWorker(ctx context.Context, pub event.EventPublisher, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	go func() {
		// Jitter so instances started together do not poll in lockstep.
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				zlog.Info().Msg("outbox worker stopped")
				return
			case <-ticker.C:
				if err := r.processOutboxBatch(ctx, pub, 20); err != nil && ctx.Err() == nil {
					zlog.Warn().Err(err).Msg("outbox batch failed")
				}
			}
		}
	}()
}

func (r *Repo) processOutboxBatch(ctx context.Context, pub event.EventPublisher, limit int) error {
	if limit <= 0 {
		limit = 50
	}

	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(claimCtx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	batch, err := claimOutbox(claimCtx, tx, limit)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return tx.Commit()
	}

	// Push next_retry_at out as a reservation in case this worker dies
	// before marking the result.
	reservation := time.Now().UTC().Add(30 * time.Second)
	for _, item := range batch {
		if _, err := tx.ExecContext(claimCtx, updateOutboxClaimSQL, item.ID, reservation); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	for _, item := range batch {
		r.processSingleItem(ctx, pub, item)
	}
	return nil
}

func claimOutbox(ctx context.Context, tx *sql.Tx, limit int) ([]outboxRow, error) {
	rows, err := tx.QueryContext(ctx, selectOutboxClaimsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batch []outboxRow
	for rows.Next() {
		var item outboxRow
		if err := rows.Scan(&item.ID, &item.MessageID, &item.RoutingKey, &item.Body, &item.Attempts); err != nil {
			return nil, err
		}
		batch = append(batch, item)
	}
	return batch, rows.Err()
}

func (r *Repo) processSingleItem(ctx context.Context, pub event.EventPublisher, item outboxRow) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := pub.PublishEvent(pubCtx, item.RoutingKey, item.MessageID, item.Body)

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()

	if err == nil {
		if _, uerr := r.db.ExecContext(resCtx, markOutboxSentSQL, item.ID, time.Now().UTC()); uerr != nil {
			zlog.Warn().Err(uerr).Str("message_id", item.MessageID).Msg("outbox mark sent failed")
		}
		metrics.RecordOutboxRelay("sent")
		return
	}

	errMsg := err.Error()
	if item.Attempts >= maxAttempts {
		if _, uerr := r.db.ExecContext(resCtx, markOutboxDeadSQL, item.ID, errMsg); uerr != nil {
			zlog.Warn().Err(uerr).Str("message_id", item.MessageID).Msg("outbox mark dead failed")
		}
		metrics.RecordOutboxRelay("dead")
		zlog.Error().Err(err).Str("message_id", item.MessageID).Str("rk", item.RoutingKey).Msg("outbox message dead")
		return
	}

	backoff := time.Duration(math.Pow(2, float64(item.Attempts))) * time.Second
	backoff += time.Duration(rand.Intn(1000)) * time.Millisecond
	if _, uerr := r.db.ExecContext(resCtx, markOutboxFailedSQL, item.ID, time.Now().UTC().Add(backoff), errMsg); uerr != nil {
		zlog.Warn().Err(uerr).Str("message_id", item.MessageID).Msg("outbox mark retry failed")
	}
	metrics.RecordOutboxRelay("retry")
	zlog.Warn().Err(err).Str("message_id", item.MessageID).Int("attempts", item.Attempts+1).Msg("outbox publish failed, will retry")
}
