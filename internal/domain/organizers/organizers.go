package organizers

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("organizer not found")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Organizer struct {
	ID           string
	Name         string
	Email        string
	Description  string
	Website      string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	Name     string
	Email    string
	Password string
}

type UpdateParams struct {
	Name        string
	Description string
	Website     string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Organizer, error)
	GetByEmail(ctx context.Context, email string) (*Organizer, error)
	Create(ctx context.Context, organizer *Organizer) error
	Update(ctx context.Context, organizer *Organizer) error
}
