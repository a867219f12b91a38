package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
)

const eventColumns = `id, name, description, organizer_id, venue, city,
       start_time, end_time, capacity, status, created_at, updated_at`

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *EventRepository) List(ctx context.Context, filters events.Filters, pagination events.Pagination) (events.ListResult, error) {
	limit := pagination.Limit
	if limit <= 0 {
		limit = 20
	}

	var (
		conditions []string
		args       []any
	)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.City != "" {
		conditions = append(conditions, "lower(city) = lower("+arg(filters.City)+")")
	}
	if filters.OrganizerID != "" {
		conditions = append(conditions, "organizer_id = "+arg(filters.OrganizerID))
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = "+arg(filters.Status))
	}
	if filters.Query != "" {
		placeholder := arg("%" + filters.Query + "%")
		conditions = append(conditions, "(name ILIKE "+placeholder+" OR description ILIKE "+placeholder+")")
	}
	if filters.From != nil {
		conditions = append(conditions, "start_time >= "+arg(*filters.From))
	}
	if filters.To != nil {
		conditions = append(conditions, "start_time <= "+arg(*filters.To))
	}
	if pagination.After != "" {
		// ULIDs sort lexicographically by creation time, so the cursor is the id itself.
		conditions = append(conditions, "id > "+arg(pagination.After))
	}

	query := "SELECT " + eventColumns + "\n  FROM events"
	if len(conditions) > 0 {
		query += "\n WHERE " + strings.Join(conditions, "\n   AND ")
	}
	query += "\n ORDER BY id\n LIMIT " + arg(limit+1)

	rows, err := r.queryer().Query(ctx, query, args...)
	if err != nil {
		return events.ListResult{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []events.Event
	for rows.Next() {
		event, err := scanEventFromRows(rows)
		if err != nil {
			return events.ListResult{}, err
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return events.ListResult{}, fmt.Errorf("list events: %w", err)
	}

	result := events.ListResult{Events: items}
	if len(items) > limit {
		result.Events = items[:limit]
		result.NextCursor = items[limit-1].ID
	}
	return result, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, "SELECT "+eventColumns+" FROM events WHERE id = $1", id)

	var event events.Event
	err := row.Scan(&event.ID, &event.Name, &event.Description, &event.OrganizerID,
		&event.Venue, &event.City, &event.StartTime, &event.EndTime,
		&event.Capacity, &event.Status, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *events.Event) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO events (id, name, description, organizer_id, venue, city,
                    start_time, end_time, capacity, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`, event.ID, event.Name, event.Description, event.OrganizerID, event.Venue, event.City,
		event.StartTime, event.EndTime, event.Capacity, event.Status, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return events.ErrConflict
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, event *events.Event) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE events
   SET name = $2, description = $3, venue = $4, city = $5,
       start_time = $6, end_time = $7, capacity = $8, status = $9, updated_at = $10
 WHERE id = $1
`, event.ID, event.Name, event.Description, event.Venue, event.City,
		event.StartTime, event.EndTime, event.Capacity, event.Status, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func scanEventFromRows(rows pgx.Rows) (*events.Event, error) {
	var event events.Event
	err := rows.Scan(&event.ID, &event.Name, &event.Description, &event.OrganizerID,
		&event.Venue, &event.City, &event.StartTime, &event.EndTime,
		&event.Capacity, &event.Status, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}
