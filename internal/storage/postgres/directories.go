package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserDirectory answers identity lookups for end users. It reads only the
// columns the resolver needs, so the hot verification path never drags the
// password hash or timestamps across the wire.
type UserDirectory struct {
	pool *pgxpool.Pool
}

func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{pool: pool}
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (*auth.UserRecord, error) {
	row := d.pool.QueryRow(ctx, `
SELECT id, name, email, role FROM users WHERE id = $1
`, id)

	var record auth.UserRecord
	if err := row.Scan(&record.ID, &record.Name, &record.Email, &record.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &record, nil
}

// OrganizerDirectory answers identity lookups for organizers.
type OrganizerDirectory struct {
	pool *pgxpool.Pool
}

func NewOrganizerDirectory(pool *pgxpool.Pool) *OrganizerDirectory {
	return &OrganizerDirectory{pool: pool}
}

func (d *OrganizerDirectory) FindByID(ctx context.Context, id string) (*auth.OrganizerRecord, error) {
	row := d.pool.QueryRow(ctx, `
SELECT id, name, email FROM organizers WHERE id = $1
`, id)

	var record auth.OrganizerRecord
	if err := row.Scan(&record.ID, &record.Name, &record.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("find organizer: %w", err)
	}
	return &record, nil
}
