package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/organizers"
	"github.com/jackc/pgx/v5"
)

func (r *OrganizerRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *OrganizerRepository) GetByID(ctx context.Context, id string) (*organizers.Organizer, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, name, email, description, website, password_hash, created_at, updated_at
  FROM organizers
 WHERE id = $1
`, id)
	return scanOrganizer(row)
}

func (r *OrganizerRepository) GetByEmail(ctx context.Context, email string) (*organizers.Organizer, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, name, email, description, website, password_hash, created_at, updated_at
  FROM organizers
 WHERE email = $1
`, email)
	return scanOrganizer(row)
}

func (r *OrganizerRepository) Create(ctx context.Context, organizer *organizers.Organizer) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO organizers (id, name, email, description, website, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, organizer.ID, organizer.Name, organizer.Email, organizer.Description,
		organizer.Website, organizer.PasswordHash, organizer.CreatedAt, organizer.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return organizers.ErrEmailTaken
		}
		return fmt.Errorf("create organizer: %w", err)
	}
	return nil
}

func (r *OrganizerRepository) Update(ctx context.Context, organizer *organizers.Organizer) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE organizers
   SET name = $2, email = $3, description = $4, website = $5, password_hash = $6, updated_at = $7
 WHERE id = $1
`, organizer.ID, organizer.Name, organizer.Email, organizer.Description,
		organizer.Website, organizer.PasswordHash, organizer.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return organizers.ErrEmailTaken
		}
		return fmt.Errorf("update organizer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organizers.ErrNotFound
	}
	return nil
}

func scanOrganizer(row pgx.Row) (*organizers.Organizer, error) {
	var organizer organizers.Organizer
	err := row.Scan(&organizer.ID, &organizer.Name, &organizer.Email, &organizer.Description,
		&organizer.Website, &organizer.PasswordHash, &organizer.CreatedAt, &organizer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, organizers.ErrNotFound
		}
		return nil, fmt.Errorf("scan organizer: %w", err)
	}
	return &organizer, nil
}
