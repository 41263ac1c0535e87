package repository

import "context"

const createReview = `-- name: CreateReview :one
INSERT INTO reviews (title, name, phone, email, body)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, title, name, phone, email, body, created_at`

type CreateReviewParams struct {
	Title string
	Name  string
	Phone string
	Email string
	Body  string
}

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	row := q.db.QueryRow(ctx, createReview, arg.Title, arg.Name, arg.Phone, arg.Email, arg.Body)
	var i Review
	err := row.Scan(&i.ID, &i.Title, &i.Name, &i.Phone, &i.Email, &i.Body, &i.CreatedAt)
	return i, err
}
