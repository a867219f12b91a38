package organizers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/sanitize"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Organizer accounts live in their own directory, disjoint from end users.
// An organizer is never an administrator.
type Service struct {
	repo      Repository
	logger    zerolog.Logger
	validator *validator.Validate
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		logger:    logger.With().Str("component", "organizers").Logger(),
		validator: validator.New(),
	}
}

type registerInput struct {
	Name     string `validate:"required,min=2,max=160"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=128"`
}

func (s *Service) Register(ctx context.Context, params CreateParams) (*Organizer, error) {
	input := registerInput{
		Name:     sanitize.Text(strings.TrimSpace(params.Name)),
		Email:    strings.ToLower(strings.TrimSpace(params.Email)),
		Password: params.Password,
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("validate organizer: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), users.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint id: %w", err)
	}

	now := time.Now().UTC()
	organizer := &Organizer{
		ID:           id,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, organizer); err != nil {
		return nil, fmt.Errorf("create organizer: %w", err)
	}

	s.logger.Info().Str("organizer_id", organizer.ID).Msg("organizer registered")
	return organizer, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*Organizer, error) {
	organizer, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup organizer: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(organizer.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return organizer, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Organizer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Organizer, error) {
	organizer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := sanitize.Text(strings.TrimSpace(params.Name)); name != "" {
		organizer.Name = name
	}
	if params.Description != "" {
		organizer.Description = sanitize.HTML(params.Description)
	}
	if params.Website != "" {
		if err := s.validator.Var(params.Website, "url"); err != nil {
			return nil, fmt.Errorf("validate website: %w", err)
		}
		organizer.Website = params.Website
	}

	organizer.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, organizer); err != nil {
		return nil, fmt.Errorf("update organizer: %w", err)
	}
	return organizer, nil
}
