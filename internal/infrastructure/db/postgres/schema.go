package postgres

import (
	"context"
	"database/sql"
)

var schemaStmts = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id    BIGSERIAL PRIMARY KEY,
  name  VARCHAR(250) NOT NULL,
  email VARCHAR(254) NOT NULL UNIQUE
);`,
	`CREATE TABLE IF NOT EXISTS categories (
  id   BIGSERIAL PRIMARY KEY,
  name VARCHAR(50) NOT NULL UNIQUE
);`,
	`CREATE TABLE IF NOT EXISTS events (
  id                 BIGSERIAL PRIMARY KEY,
  initiator_id       BIGINT NOT NULL REFERENCES users(id),
  category_id        BIGINT NOT NULL REFERENCES categories(id),
  title              VARCHAR(120) NOT NULL,
  annotation         VARCHAR(2000) NOT NULL,
  description        VARCHAR(7000) NOT NULL,
  lat                DOUBLE PRECISION NOT NULL,
  lon                DOUBLE PRECISION NOT NULL,
  paid               BOOLEAN NOT NULL DEFAULT FALSE,
  participant_limit  INTEGER NOT NULL DEFAULT 0,
  request_moderation BOOLEAN NOT NULL DEFAULT TRUE,
  created_on         TIMESTAMPTZ NOT NULL,
  event_date         TIMESTAMPTZ NOT NULL,
  state              VARCHAR(16) NOT NULL,
  published_on       TIMESTAMPTZ NULL
);`,
	`CREATE INDEX IF NOT EXISTS events_initiator_idx ON events (initiator_id, id);`,
	`CREATE INDEX IF NOT EXISTS events_state_date_idx ON events (state, event_date);`,
	`CREATE TABLE IF NOT EXISTS participation_requests (
  id           BIGSERIAL PRIMARY KEY,
  event_id     BIGINT NOT NULL REFERENCES events(id),
  requester_id BIGINT NOT NULL REFERENCES users(id),
  status       VARCHAR(16) NOT NULL,
  created      TIMESTAMPTZ NOT NULL,
  CONSTRAINT participation_requests_event_requester_uq UNIQUE (event_id, requester_id)
);`,
	`CREATE TABLE IF NOT EXISTS event_outbox (
  id            BIGSERIAL PRIMARY KEY,
  message_id    TEXT NOT NULL UNIQUE,
  routing_key   TEXT NOT NULL,
  body          JSONB NOT NULL,
  status        TEXT NOT NULL DEFAULT 'pending',
  attempts      INTEGER NOT NULL DEFAULT 0,
  last_error    TEXT NULL,
  created_at    TIMESTAMPTZ NOT NULL,
  next_retry_at TIMESTAMPTZ NULL,
  sent_at       TIMESTAMPTZ NULL
);`,
	`CREATE INDEX IF NOT EXISTS event_outbox_due_idx ON event_outbox (status, next_retry_at);`,
}

// EnsureSchema creates the tables the service needs. Every statement is
// idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, s := range schemaStmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
