package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/stretchr/testify/require"
)

func TestEventRepositoryGetByID(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	eventID := insertTestEvent(t, ctx, pool, organizerID, "Launch Party", "Toronto", "published", time.Now().Add(24*time.Hour))

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	event, err := repo.Events().GetByID(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, "Launch Party", event.Name)
	require.Equal(t, organizerID, event.OrganizerID)
	require.Equal(t, events.StatusPublished, event.Status)
}

func TestEventRepositoryGetByIDMiss(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	_, err = repo.Events().GetByID(ctx, newULID(t))
	require.ErrorIs(t, err, events.ErrNotFound)
}

func TestEventRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	otherID := insertOrganizer(t, ctx, pool, "Other Co", "hello@other.co")

	start := time.Now().Add(24 * time.Hour)
	insertTestEvent(t, ctx, pool, organizerID, "Jazz Night", "Toronto", "published", start)
	insertTestEvent(t, ctx, pool, organizerID, "Art Walk", "Montreal", "published", start)
	insertTestEvent(t, ctx, pool, otherID, "Tech Meetup", "Toronto", "draft", start)

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	byCity, err := repo.Events().List(ctx, events.Filters{City: "toronto"}, events.Pagination{})
	require.NoError(t, err)
	require.Len(t, byCity.Events, 2)

	byOrganizer, err := repo.Events().List(ctx, events.Filters{OrganizerID: organizerID}, events.Pagination{})
	require.NoError(t, err)
	require.Len(t, byOrganizer.Events, 2)

	published, err := repo.Events().List(ctx, events.Filters{City: "Toronto", Status: events.StatusPublished}, events.Pagination{})
	require.NoError(t, err)
	require.Len(t, published.Events, 1)
	require.Equal(t, "Jazz Night", published.Events[0].Name)

	byQuery, err := repo.Events().List(ctx, events.Filters{Query: "jazz"}, events.Pagination{})
	require.NoError(t, err)
	require.Len(t, byQuery.Events, 1)
}

func TestEventRepositoryListPagination(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	start := time.Now().Add(24 * time.Hour)
	for i := 0; i < 5; i++ {
		insertTestEvent(t, ctx, pool, organizerID, "Event", "Toronto", "published", start)
	}

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	first, err := repo.Events().List(ctx, events.Filters{}, events.Pagination{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Events, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.Events().List(ctx, events.Filters{}, events.Pagination{Limit: 2, After: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Events, 2)
	require.NotEqual(t, first.Events[0].ID, second.Events[0].ID)

	last, err := repo.Events().List(ctx, events.Filters{}, events.Pagination{Limit: 2, After: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, last.Events, 1)
	require.Empty(t, last.NextCursor)
}

func TestEventRepositoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	organizerID := insertOrganizer(t, ctx, pool, "Venue Co", "events@venue.co")
	eventID := insertTestEvent(t, ctx, pool, organizerID, "Jazz Night", "Toronto", "draft", time.Now().Add(24*time.Hour))

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	event, err := repo.Events().GetByID(ctx, eventID)
	require.NoError(t, err)

	event.Status = events.StatusPublished
	event.UpdatedAt = time.Now()
	require.NoError(t, repo.Events().Update(ctx, event))

	updated, err := repo.Events().GetByID(ctx, eventID)
	require.NoError(t, err)
	require.Equal(t, events.StatusPublished, updated.Status)

	require.NoError(t, repo.Events().Delete(ctx, eventID))
	require.ErrorIs(t, repo.Events().Delete(ctx, eventID), events.ErrNotFound)
}
