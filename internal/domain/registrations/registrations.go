package registrations

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("registration not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is at capacity")
	ErrEventNotOpen      = errors.New("event is not open for registration")
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Registration struct {
	ID        string
	EventID   string
	UserID    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, registration *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	ListByUser(ctx context.Context, userID string) ([]Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]Registration, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CountConfirmedByEvent(ctx context.Context, eventID string) (int, error)
}
