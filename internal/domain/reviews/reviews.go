package reviews

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("event already reviewed by this user")
	ErrNotRegistered   = errors.New("user is not registered for this event")
	ErrEventNotEnded   = errors.New("event has not ended yet")
)

type Review struct {
	ID        string
	EventID   string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

type CreateParams struct {
	Rating  int
	Comment string
}

type Repository interface {
	Create(ctx context.Context, review *Review) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Review, error)
	ListByEvent(ctx context.Context, eventID string) ([]Review, error)
	Delete(ctx context.Context, id string) error
}
