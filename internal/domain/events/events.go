package events

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("event not found")
	ErrConflict = errors.New("event conflict")
)

// Lifecycle states. Only published events are publicly listed and open for
// registration.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCancelled = "cancelled"
)

type Event struct {
	ID          string
	Name        string
	Description string
	OrganizerID string
	Venue       string
	City        string
	StartTime   time.Time
	EndTime     time.Time
	Capacity    int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	Name        string
	Description string
	Venue       string
	City        string
	StartTime   time.Time
	EndTime     time.Time
	Capacity    int
	Status      string
}

type UpdateParams struct {
	Name        *string
	Description *string
	Venue       *string
	City        *string
	StartTime   *time.Time
	EndTime     *time.Time
	Capacity    *int
	Status      *string
}

type Filters struct {
	City        string
	OrganizerID string
	Status      string
	Query       string
	From        *time.Time
	To          *time.Time
}

type Pagination struct {
	Limit int
	After string
}

type ListResult struct {
	Events     []Event
	NextCursor string
}

type Repository interface {
	List(ctx context.Context, filters Filters, pagination Pagination) (ListResult, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}
