package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/gatherly/server/internal/sanitize"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Service struct {
	repo          Repository
	events        events.Repository
	registrations registrations.Repository
	logger        zerolog.Logger
	validator     *validator.Validate
}

func NewService(repo Repository, eventRepo events.Repository, registrationRepo registrations.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:          repo,
		events:        eventRepo,
		registrations: registrationRepo,
		logger:        logger.With().Str("component", "reviews").Logger(),
		validator:     validator.New(),
	}
}

type createInput struct {
	Rating  int    `validate:"required,min=1,max=5"`
	Comment string `validate:"max=4000"`
}

// Create records a review for an event the user attended. One review per
// user per event; the event must have ended.
func (s *Service) Create(ctx context.Context, eventID, userID string, params CreateParams) (*Review, error) {
	input := createInput{Rating: params.Rating, Comment: params.Comment}
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("validate review: %w", err)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	end := event.EndTime
	if end.IsZero() {
		end = event.StartTime
	}
	if time.Now().UTC().Before(end) {
		return nil, ErrEventNotEnded
	}

	registration, err := s.registrations.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if registration.Status != registrations.StatusConfirmed {
		return nil, ErrNotRegistered
	}

	if _, err := s.repo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check review: %w", err)
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint id: %w", err)
	}

	review := &Review{
		ID:        id,
		EventID:   eventID,
		UserID:    userID,
		Rating:    params.Rating,
		Comment:   sanitize.HTML(params.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info().Str("event_id", eventID).Str("user_id", userID).Int("rating", params.Rating).Msg("review created")
	return review, nil
}

func (s *Service) ListForEvent(ctx context.Context, eventID string) ([]Review, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
