package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createSession = `-- name: CreateSession :one
INSERT INTO sessions (token, customer_id, expires_at)
VALUES ($1, $2, $3)
RETURNING token, customer_id, expires_at, created_at`

type CreateSessionParams struct {
	Token      string
	CustomerID uuid.UUID
	ExpiresAt  time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRow(ctx, createSession, arg.Token, arg.CustomerID, arg.ExpiresAt)
	var i Session
	err := row.Scan(&i.Token, &i.CustomerID, &i.ExpiresAt, &i.CreatedAt)
	return i, err
}

const getSessionByToken = `-- name: GetSessionByToken :one
SELECT token, customer_id, expires_at, created_at FROM sessions WHERE token = $1`

func (q *Queries) GetSessionByToken(ctx context.Context, token string) (Session, error) {
	row := q.db.QueryRow(ctx, getSessionByToken, token)
	var i Session
	err := row.Scan(&i.Token, &i.CustomerID, &i.ExpiresAt, &i.CreatedAt)
	return i, err
}

const deleteSession = `-- name: DeleteSession :exec
DELETE FROM sessions WHERE token = $1`

func (q *Queries) DeleteSession(ctx context.Context, token string) error {
	_, err := q.db.Exec(ctx, deleteSession, token)
	return err
}

const deleteExpiredSessions = `-- name: DeleteExpiredSessions :execrows
DELETE FROM sessions WHERE expires_at < now()`

func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpiredSessions)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
