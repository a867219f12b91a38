package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/server/internal/domain/ids"
	"github.com/gatherly/server/internal/sanitize"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt password hashing.
const BcryptCost = 12

type Service struct {
	repo      Repository
	logger    zerolog.Logger
	validator *validator.Validate
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		logger:    logger.With().Str("component", "users").Logger(),
		validator: validator.New(),
	}
}

type registerInput struct {
	Name     string `validate:"required,min=2,max=120"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=128"`
}

// Register creates a new end-user account with the "user" role. Admin
// accounts are only created through role changes or the bootstrap path.
func (s *Service) Register(ctx context.Context, params CreateParams) (*User, error) {
	input := registerInput{
		Name:     sanitize.Text(strings.TrimSpace(params.Name)),
		Email:    strings.ToLower(strings.TrimSpace(params.Email)),
		Password: params.Password,
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, fmt.Errorf("validate user: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint id: %w", err)
	}

	role := params.Role
	if role != RoleAdmin {
		role = RoleUser
	}

	now := time.Now().UTC()
	user := &User{
		ID:           id,
		Name:         input.Name,
		Email:        input.Email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Authenticate verifies an email/password pair and returns the user.
// Failures are deliberately indistinguishable between unknown email and
// wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := sanitize.Text(strings.TrimSpace(params.Name)); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(params.Email)); email != "" && email != user.Email {
		if err := s.validator.Var(email, "email"); err != nil {
			return nil, fmt.Errorf("validate email: %w", err)
		}
		if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.ID != user.ID {
			return nil, ErrEmailTaken
		} else if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = email
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if err := s.validator.Var(next, "min=8,max=128"); err != nil {
		return fmt.Errorf("validate password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]User, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 50
	}
	return s.repo.List(ctx, filters)
}

// ChangeRole flips a user between "user" and "admin". Any other value is
// rejected; organizer is not a user role.
func (s *Service) ChangeRole(ctx context.Context, id, role string) error {
	if role != RoleUser && role != RoleAdmin {
		return fmt.Errorf("invalid role %q", role)
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("role", role).Msg("user role changed")
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
