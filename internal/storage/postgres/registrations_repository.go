package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/jackc/pgx/v5"
)

const registrationColumns = `id, event_id, user_id, status, created_at, updated_at`

func (r *RegistrationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *RegistrationRepository) Create(ctx context.Context, registration *registrations.Registration) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO registrations (id, event_id, user_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, registration.ID, registration.EventID, registration.UserID,
		registration.Status, registration.CreatedAt, registration.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return registrations.ErrAlreadyRegistered
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*registrations.Registration, error) {
	row := r.queryer().QueryRow(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE event_id = $1 AND user_id = $2",
		eventID, userID)

	var registration registrations.Registration
	err := row.Scan(&registration.ID, &registration.EventID, &registration.UserID,
		&registration.Status, &registration.CreatedAt, &registration.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registrations.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &registration, nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]registrations.Registration, error) {
	return r.list(ctx, "user_id", userID)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]registrations.Registration, error) {
	return r.list(ctx, "event_id", eventID)
}

func (r *RegistrationRepository) list(ctx context.Context, column, value string) ([]registrations.Registration, error) {
	rows, err := r.queryer().Query(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE "+column+" = $1 ORDER BY created_at DESC",
		value)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var result []registrations.Registration
	for rows.Next() {
		var registration registrations.Registration
		if err := rows.Scan(&registration.ID, &registration.EventID, &registration.UserID,
			&registration.Status, &registration.CreatedAt, &registration.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		result = append(result, registration)
	}
	return result, rows.Err()
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE registrations SET status = $2, updated_at = now() WHERE id = $1
`, id, status)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registrations.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepository) CountConfirmedByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.queryer().QueryRow(ctx, `
SELECT count(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed'
`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}
