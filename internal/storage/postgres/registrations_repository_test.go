package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepositoryUniquePerUserAndEvent(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	eventID := insertTestEvent(t, ctx, pool, organizerID, "Jazz Night", "Toronto", "published", time.Now().Add(24*time.Hour))
	userID := insertUser(t, ctx, pool, "Ada", "ada@example.com", "user")

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	now := time.Now()
	first := &registrations.Registration{ID: newULID(t), EventID: eventID, UserID: userID, Status: registrations.StatusConfirmed, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Registrations().Create(ctx, first))

	duplicate := &registrations.Registration{ID: newULID(t), EventID: eventID, UserID: userID, Status: registrations.StatusConfirmed, CreatedAt: now, UpdatedAt: now}
	require.ErrorIs(t, repo.Registrations().Create(ctx, duplicate), registrations.ErrAlreadyRegistered)
}

func TestRegistrationRepositoryCountConfirmed(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	eventID := insertTestEvent(t, ctx, pool, organizerID, "Jazz Night", "Toronto", "published", time.Now().Add(24*time.Hour))

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	now := time.Now()
	var lastID string
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		userID := insertUser(t, ctx, pool, "User", email, "user")
		registration := &registrations.Registration{ID: newULID(t), EventID: eventID, UserID: userID, Status: registrations.StatusConfirmed, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, repo.Registrations().Create(ctx, registration))
		if i == 2 {
			lastID = registration.ID
		}
	}

	count, err := repo.Registrations().CountConfirmedByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	require.NoError(t, repo.Registrations().UpdateStatus(ctx, lastID, registrations.StatusCancelled))

	count, err = repo.Registrations().CountConfirmedByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestRegistrationRepositoryLists(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	eventID := insertTestEvent(t, ctx, pool, organizerID, "Jazz Night", "Toronto", "published", time.Now().Add(24*time.Hour))
	userID := insertUser(t, ctx, pool, "Ada", "ada@example.com", "user")

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	now := time.Now()
	registration := &registrations.Registration{ID: newULID(t), EventID: eventID, UserID: userID, Status: registrations.StatusConfirmed, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Registrations().Create(ctx, registration))

	byUser, err := repo.Registrations().ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	byEvent, err := repo.Registrations().ListByEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, byEvent, 1)
	require.Equal(t, registration.ID, byEvent[0].ID)
}
