package events

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/sanitize"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

func (s *Service) List(ctx context.Context, filters Filters, pagination Pagination) (ListResult, error) {
	return s.repo.List(ctx, filters, pagination)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

// Create makes a new event owned by the given organizer. Ownership is
// recorded once at creation and never transferred.
func (s *Service) Create(ctx context.Context, organizerID string, params CreateParams) (*Event, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint id: %w", err)
	}

	status := params.Status
	if status == "" {
		status = StatusDraft
	}
	if status != StatusDraft && status != StatusPublished {
		return nil, FilterError{Field: "status", Message: "must be draft or published"}
	}

	now := time.Now().UTC()
	event := &Event{
		ID:          id,
		Name:        sanitize.Text(strings.TrimSpace(params.Name)),
		Description: sanitize.HTML(params.Description),
		OrganizerID: organizerID,
		Venue:       sanitize.Text(strings.TrimSpace(params.Venue)),
		City:        sanitize.Text(strings.TrimSpace(params.City)),
		StartTime:   params.StartTime.UTC(),
		EndTime:     params.EndTime.UTC(),
		Capacity:    params.Capacity,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info().Str("event_id", event.ID).Str("organizer_id", organizerID).Msg("event created")
	return event, nil
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		event.Name = sanitize.Text(strings.TrimSpace(*params.Name))
	}
	if params.Description != nil {
		event.Description = sanitize.HTML(*params.Description)
	}
	if params.Venue != nil {
		event.Venue = sanitize.Text(strings.TrimSpace(*params.Venue))
	}
	if params.City != nil {
		event.City = sanitize.Text(strings.TrimSpace(*params.City))
	}
	if params.StartTime != nil {
		event.StartTime = params.StartTime.UTC()
	}
	if params.EndTime != nil {
		event.EndTime = params.EndTime.UTC()
	}
	if params.Capacity != nil {
		if *params.Capacity < 0 {
			return nil, FilterError{Field: "capacity", Message: "must not be negative"}
		}
		event.Capacity = *params.Capacity
	}
	if params.Status != nil {
		switch *params.Status {
		case StatusDraft, StatusPublished, StatusCancelled:
			event.Status = *params.Status
		default:
			return nil, FilterError{Field: "status", Message: "unknown lifecycle state"}
		}
	}

	if event.Name == "" {
		return nil, FilterError{Field: "name", Message: "must not be empty"}
	}
	if !event.EndTime.IsZero() && event.EndTime.Before(event.StartTime) {
		return nil, FilterError{Field: "endTime", Message: "must be on or after startTime"}
	}

	event.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

func validateCreate(params CreateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return FilterError{Field: "name", Message: "required"}
	}
	if params.StartTime.IsZero() {
		return FilterError{Field: "startTime", Message: "required"}
	}
	if !params.EndTime.IsZero() && params.EndTime.Before(params.StartTime) {
		return FilterError{Field: "endTime", Message: "must be on or after startTime"}
	}
	if params.Capacity < 0 {
		return FilterError{Field: "capacity", Message: "must not be negative"}
	}
	return nil
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseFilters reads list query parameters.
func ParseFilters(values url.Values) (Filters, Pagination, error) {
	filters := Filters{}
	pagination := Pagination{Limit: 50}

	from, err := parseDate("from", values.Get("from"))
	if err != nil {
		return filters, pagination, err
	}
	to, err := parseDate("to", values.Get("to"))
	if err != nil {
		return filters, pagination, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return filters, pagination, FilterError{Field: "to", Message: "must be on or after from"}
	}
	filters.From = from
	filters.To = to

	filters.City = strings.TrimSpace(values.Get("city"))
	filters.Query = strings.TrimSpace(values.Get("q"))

	filters.OrganizerID = strings.TrimSpace(values.Get("organizerId"))
	if filters.OrganizerID != "" {
		if err := ids.ValidateULID(filters.OrganizerID); err != nil {
			return filters, pagination, FilterError{Field: "organizerId", Message: "invalid ULID"}
		}
	}

	if status := strings.TrimSpace(values.Get("status")); status != "" {
		switch status {
		case StatusDraft, StatusPublished, StatusCancelled:
			filters.Status = status
		default:
			return filters, pagination, FilterError{Field: "status", Message: "unknown lifecycle state"}
		}
	}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return filters, pagination, FilterError{Field: "limit", Message: "must be between 1 and 100"}
		}
		pagination.Limit = limit
	}

	after := strings.TrimSpace(values.Get("after"))
	if after != "" {
		if err := ids.ValidateULID(after); err != nil {
			return filters, pagination, FilterError{Field: "after", Message: "must be a valid ULID"}
		}
	}
	pagination.After = after

	return filters, pagination, nil
}

func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return nil, FilterError{Field: field, Message: "must be YYYY-MM-DD or RFC 3339"}
	}
	return &parsed, nil
}
