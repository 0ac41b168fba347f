package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	err  error
	sent []string
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	p.sent = append(p.sent, routingKey+"/"+messageID)
	return p.err
}

var outboxColumns = []string{"id", "message_id", "routing_key", "body", "attempts"}

func TestRepo_ProcessOutboxBatch(t *testing.T) {
	t.Run("claims_publishes_and_marks_sent", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FROM event_outbox").
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(int64(1), "m-1", "event.published", []byte(`{}`), 0))
		mock.ExpectExec("SET next_retry_at = \\$2,\\s+status = 'processing'").
			WithArgs(int64(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectExec("SET status = 'sent'").
			WithArgs(int64(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		pub := &recordingPublisher{}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, 20))
		assert.Equal(t, []string{"event.published/m-1"}, pub.sent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed_publish_is_rescheduled", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FROM event_outbox").
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(int64(2), "m-2", "event.rejected", []byte(`{}`), 3))
		mock.ExpectExec("status = 'processing'").
			WithArgs(int64(2), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectExec("SET status = 'pending'").
			WithArgs(int64(2), sqlmock.AnyArg(), "broker down").
			WillReturnResult(sqlmock.NewResult(0, 1))

		pub := &recordingPublisher{err: errors.New("broker down")}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, 20))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exhausted_message_goes_dead", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FROM event_outbox").
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(int64(3), "m-3", "event.canceled", []byte(`{}`), maxAttempts))
		mock.ExpectExec("status = 'processing'").
			WithArgs(int64(3), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectExec("SET status = 'dead'").
			WithArgs(int64(3), "nope").
			WillReturnResult(sqlmock.NewResult(0, 1))

		pub := &recordingPublisher{err: errors.New("nope")}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, 20))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired_processing_row_is_claimed_again", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("WHERE status IN \\('pending', 'processing'\\)\\s+AND \\(next_retry_at IS NULL OR next_retry_at <= NOW\\(\\)\\)").
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(int64(4), "m-4", "event.submitted", []byte(`{}`), 1))
		mock.ExpectExec("status = 'processing'").
			WithArgs(int64(4), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectExec("SET status = 'sent'").
			WithArgs(int64(4), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		pub := &recordingPublisher{}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, 20))
		assert.Equal(t, []string{"event.submitted/m-4"}, pub.sent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mark_error_leaves_row_for_reclaim", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FROM event_outbox").
			WithArgs(20).
			WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(int64(5), "m-5", "event.rejected", []byte(`{}`), 0))
		mock.ExpectExec("status = 'processing'").
			WithArgs(int64(5), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectExec("SET status = 'pending'").
			WithArgs(int64(5), sqlmock.AnyArg(), "broker down").
			WillReturnError(errors.New("conn reset"))

		pub := &recordingPublisher{err: errors.New("broker down")}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, 20))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty_batch_commits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("FROM event_outbox").WithArgs(20).WillReturnRows(sqlmock.NewRows(outboxColumns))
		mock.ExpectCommit()

		pub := &recordingPublisher{}
		require.NoError(t, New(db).processOutboxBatch(context.Background(), pub, 20))
		assert.Empty(t, pub.sent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
