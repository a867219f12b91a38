package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	events events.Repository
	logger zerolog.Logger
}

func NewService(repo Repository, eventRepo events.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: eventRepo,
		logger: logger.With().Str("component", "registrations").Logger(),
	}
}

// Register signs a user up for a published event, re-activating a previously
// cancelled registration when one exists. Capacity 0 means unlimited.
func (s *Service) Register(ctx context.Context, eventID, userID string) (*Registration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != events.StatusPublished {
		return nil, ErrEventNotOpen
	}

	existing, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if existing != nil && existing.Status == StatusConfirmed {
		return nil, ErrAlreadyRegistered
	}

	if event.Capacity > 0 {
		confirmed, err := s.repo.CountConfirmedByEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("count registrations: %w", err)
		}
		if confirmed >= event.Capacity {
			return nil, ErrEventFull
		}
	}

	if existing != nil {
		if err := s.repo.UpdateStatus(ctx, existing.ID, StatusConfirmed); err != nil {
			return nil, fmt.Errorf("reactivate registration: %w", err)
		}
		existing.Status = StatusConfirmed
		return existing, nil
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint id: %w", err)
	}

	now := time.Now().UTC()
	registration := &Registration{
		ID:        id,
		EventID:   eventID,
		UserID:    userID,
		Status:    StatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.logger.Info().Str("event_id", eventID).Str("user_id", userID).Msg("registration created")
	return registration, nil
}

// Cancel marks the caller's registration cancelled. Only the registered user
// may cancel; handlers pass the authenticated principal's id.
func (s *Service) Cancel(ctx context.Context, eventID, userID string) error {
	registration, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if registration.Status == StatusCancelled {
		return nil
	}
	return s.repo.UpdateStatus(ctx, registration.ID, StatusCancelled)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Registration, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListForEvent is the organizer's attendee view; the ownership guard has
// already established the caller may see it.
func (s *Service) ListForEvent(ctx context.Context, eventID string) ([]Registration, error) {
	return s.repo.ListByEvent(ctx, eventID)
}
