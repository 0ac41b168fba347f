package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/query"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(rs rowScanner) (*domain.Event, error) {
	var e domain.Event
	var state string
	var publishedOn sql.NullTime
	err := rs.Scan(
		&e.ID, &e.Initiator.ID, &e.Initiator.Name, &e.Category.ID, &e.Category.Name,
		&e.Title, &e.Annotation, &e.Description, &e.Location.Lat, &e.Location.Lon,
		&e.Paid, &e.ParticipantLimit, &e.RequestModeration,
		&e.CreatedOn, &e.EventDate, &state, &publishedOn,
	)
	if err != nil {
		return nil, err
	}

	e.State = domain.EventState(state)
	if !e.State.Valid() {
		return nil, domain.ErrInternal("invalid event state in db")
	}
	e.CreatedOn = e.CreatedOn.UTC()
	e.EventDate = e.EventDate.UTC()
	if publishedOn.Valid {
		t := publishedOn.Time.UTC()
		e.PublishedOn = &t
	}
	return &e, nil
}

func scanEventRow(row *sql.Row) (*domain.Event, error) {
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, err
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts e and sets its id.
func (r *Repo) Create(ctx context.Context, e *domain.Event) error {
	return r.db.QueryRowContext(ctx, insertEventSQL,
		e.Initiator.ID, e.Category.ID, e.Title, e.Annotation, e.Description,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		e.CreatedOn, e.EventDate, string(e.State), e.PublishedOn,
	).Scan(&e.ID)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return scanEventRow(r.db.QueryRowContext(ctx, getEventSQL, id))
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Event, error) {
	return scanEventRow(r.db.QueryRowContext(ctx, getEventByOwnerSQL, id, ownerID))
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, listByOwnerSQL, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// Scan runs a filtered, ordered and paged query over all events.
func (r *Repo) Scan(ctx context.Context, f query.Filter, s query.Sort, offset, limit int) ([]*domain.Event, error) {
	where, args, err := buildWhere(f, 1)
	if err != nil {
		return nil, err
	}
	orderBy, err := buildOrderBy(s)
	if err != nil {
		return nil, err
	}

	n := len(args)
	q := selectEventSQL + where + orderBy + limitOffset(n+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}
