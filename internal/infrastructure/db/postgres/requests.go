package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/ewm-service/internal/application/participation"
	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const insertRequestSQL = `
INSERT INTO participation_requests (event_id, requester_id, status, created)
VALUES ($1, $2, $3, $4)
RETURNING id
`

const countConfirmedSQL = `
SELECT COUNT(*) FROM participation_requests
WHERE event_id = $1 AND status = 'CONFIRMED'
`

const selectRequestSQL = `
SELECT id, event_id, requester_id, status, created
FROM participation_requests
`

type Requests struct {
	db *sql.DB
}

func NewRequests(db *sql.DB) *Requests { return &Requests{db: db} }

func scanRequest(rs rowScanner) (*domain.ParticipationRequest, error) {
	var r domain.ParticipationRequest
	var status string
	if err := rs.Scan(&r.ID, &r.EventID, &r.RequesterID, &status, &r.Created); err != nil {
		return nil, err
	}
	r.Status = domain.RequestStatus(status)
	r.Created = r.Created.UTC()
	return &r, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Requests) Create(ctx context.Context, r *domain.ParticipationRequest) error {
	return createRequest(ctx, s.db, r)
}

func createRequest(ctx context.Context, q rowQuerier, r *domain.ParticipationRequest) error {
	err := q.QueryRowContext(ctx, insertRequestSQL,
		r.EventID, r.RequesterID, string(r.Status), r.Created,
	).Scan(&r.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrNameConflict("participation request already exists")
	}
	return err
}

func (s *Requests) GetByID(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	r, err := scanRequest(s.db.QueryRowContext(ctx, selectRequestSQL+`WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("request not found")
	}
	return r, err
}

func (s *Requests) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	_, err := s.db.ExecContext(ctx, `UPDATE participation_requests SET status = $2 WHERE id = $1`, id, string(status))
	return err
}

func (s *Requests) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.ParticipationRequest, error) {
	rows, err := s.db.QueryContext(ctx, selectRequestSQL+`WHERE requester_id = $1 ORDER BY id`, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ParticipationRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Requests) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	return countConfirmed(ctx, s.db, eventID)
}

func countConfirmed(ctx context.Context, q rowQuerier, eventID int64) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, countConfirmedSQL, eventID).Scan(&n)
	return n, err
}

// WithTx runs fn in a transaction. Admission decisions made inside fn
// hold the event row lock taken by GetEventForUpdate until commit.
func (s *Requests) WithTx(ctx context.Context, fn func(tr participation.TxRequestRepo) error) error {
	return runTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&txRequests{tx: tx})
	})
}

type txRequests struct {
	tx *sql.Tx
}

func (r *txRequests) GetEventForUpdate(ctx context.Context, id int64) (*domain.Event, error) {
	return scanEventRow(r.tx.QueryRowContext(ctx, selectEventForUpdateSQL, id))
}

func (r *txRequests) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	return countConfirmed(ctx, r.tx, eventID)
}

func (r *txRequests) Create(ctx context.Context, req *domain.ParticipationRequest) error {
	return createRequest(ctx, r.tx, req)
}
