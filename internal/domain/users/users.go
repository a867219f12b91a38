package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	Name     string
	Email    string
	Role     string
	Password string
}

type UpdateProfileParams struct {
	Name  string
	Email string
}

type ListFilters struct {
	Role   string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, id string, role string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters ListFilters) ([]User, error)
}
