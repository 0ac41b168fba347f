package postgres

const selectEventSQL = `
SELECT e.id, e.initiator_id, u.name, e.category_id, c.name,
       e.title, e.annotation, e.description, e.lat, e.lon,
       e.paid, e.participant_limit, e.request_moderation,
       e.created_on, e.event_date, e.state, e.published_on
FROM events e
JOIN users u ON u.id = e.initiator_id
JOIN categories c ON c.id = e.category_id
`

const insertEventSQL = `
INSERT INTO events (
  initiator_id, category_id, title, annotation, description,
  lat, lon, paid, participant_limit, request_moderation,
  created_on, event_date, state, published_on
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
RETURNING id
`

const getEventSQL = selectEventSQL + `WHERE e.id = $1`

const getEventByOwnerSQL = selectEventSQL + `WHERE e.id = $1 AND e.initiator_id = $2`

const listByOwnerSQL = selectEventSQL + `
WHERE e.initiator_id = $1
ORDER BY e.id
LIMIT $2 OFFSET $3
`

const selectEventForUpdateSQL = selectEventSQL + `WHERE e.id = $1
FOR UPDATE OF e
`

// Only the mutable part of an event is ever written back.
const updateEventSQL = `
UPDATE events SET
  event_date=$2, state=$3, published_on=$4
WHERE id=$1
`

const getUserSQL = `SELECT id, name, email FROM users WHERE id = $1`

const getCategorySQL = `SELECT id, name FROM categories WHERE id = $1`
