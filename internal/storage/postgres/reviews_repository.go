package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/reviews"
	"github.com/jackc/pgx/v5"
)

func (r *ReviewRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *ReviewRepository) Create(ctx context.Context, review *reviews.Review) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO reviews (id, event_id, user_id, rating, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, review.ID, review.EventID, review.UserID, review.Rating, review.Comment, review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return reviews.ErrAlreadyReviewed
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*reviews.Review, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, event_id, user_id, rating, comment, created_at
  FROM reviews
 WHERE event_id = $1 AND user_id = $2
`, eventID, userID)

	var review reviews.Review
	err := row.Scan(&review.ID, &review.EventID, &review.UserID,
		&review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reviews.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &review, nil
}

func (r *ReviewRepository) ListByEvent(ctx context.Context, eventID string) ([]reviews.Review, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, event_id, user_id, rating, comment, created_at
  FROM reviews
 WHERE event_id = $1
 ORDER BY created_at DESC
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var result []reviews.Review
	for rows.Next() {
		var review reviews.Review
		if err := rows.Scan(&review.ID, &review.EventID, &review.UserID,
			&review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return reviews.ErrNotFound
	}
	return nil
}
