package postgres

import (
	"context"
	"testing"

	"github.com/gatherly/server/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestUserDirectoryFindByID(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	userID := insertUser(t, ctx, pool, "Ada Lovelace", "ada@example.com", "admin")
	directory := NewUserDirectory(pool)

	record, err := directory.FindByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, userID, record.ID)
	require.Equal(t, "Ada Lovelace", record.Name)
	require.Equal(t, "ada@example.com", record.Email)
	require.Equal(t, "admin", record.Role)
}

func TestUserDirectoryMiss(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	directory := NewUserDirectory(pool)
	_, err := directory.FindByID(ctx, newULID(t))
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestOrganizerDirectoryFindByID(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	directory := NewOrganizerDirectory(pool)

	record, err := directory.FindByID(ctx, organizerID)
	require.NoError(t, err)
	require.Equal(t, organizerID, record.ID)
	require.Equal(t, "Venue Co", record.Name)
}

func TestOrganizerDirectoryMiss(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	directory := NewOrganizerDirectory(pool)
	_, err := directory.FindByID(ctx, newULID(t))
	require.ErrorIs(t, err, auth.ErrNotFound)
}

// The resolver does not care which table an identifier lives in; the two
// directories must stay disjoint so a user id never resolves as an organizer.
func TestDirectoriesAreDisjoint(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	userID := insertUser(t, ctx, pool, "Ada", "ada@example.com", "user")

	organizerDirectory := NewOrganizerDirectory(pool)
	_, err := organizerDirectory.FindByID(ctx, userID)
	require.ErrorIs(t, err, auth.ErrNotFound)
}
