package storage

import (
	"context"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/organizers"
	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/gatherly/server/internal/domain/reviews"
	"github.com/gatherly/server/internal/domain/users"
)

// Repository groups data access by domain.
type Repository interface {
	Users() users.Repository
	Organizers() organizers.Repository
	Events() events.Repository
	Registrations() registrations.Repository
	Reviews() reviews.Repository

	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
