package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserRecord is the slice of an end-user row the resolver reads.
type UserRecord struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// OrganizerRecord is the slice of an organizer row the resolver reads.
type OrganizerRecord struct {
	ID    string
	Name  string
	Email string
}

// UserDirectory looks up end users by subject identifier. Implementations
// return ErrNotFound when no record exists.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*UserRecord, error)
}

// OrganizerDirectory looks up organizers by subject identifier.
// Implementations return ErrNotFound when no record exists.
type OrganizerDirectory interface {
	FindByID(ctx context.Context, id string) (*OrganizerRecord, error)
}

// Resolver turns a verified subject identifier into a typed principal. It is
// the single source of truth for what kind of actor an identifier names:
// the user directory is consulted first, then the organizer directory. The
// order is a deterministic tie-break; an identifier is not expected to exist
// in both stores.
type Resolver struct {
	users      UserDirectory
	organizers OrganizerDirectory
}

func NewResolver(users UserDirectory, organizers OrganizerDirectory) *Resolver {
	return &Resolver{users: users, organizers: organizers}
}

// Resolve looks up subjectID and builds a principal. Fails with
// ErrSubjectNotFound when the identifier exists in neither directory and
// ErrStoreUnavailable when a lookup failed for store-side reasons.
func (r *Resolver) Resolve(ctx context.Context, subjectID string) (Principal, error) {
	if strings.TrimSpace(subjectID) == "" {
		return Principal{}, ErrSubjectNotFound
	}

	user, err := r.users.FindByID(ctx, subjectID)
	if err == nil && user != nil {
		return Principal{
			ID:    user.ID,
			Kind:  KindEndUser,
			Role:  normalizeUserRole(user.Role),
			Name:  user.Name,
			Email: user.Email,
		}, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Principal{}, fmt.Errorf("%w: user lookup: %v", ErrStoreUnavailable, err)
	}

	organizer, err := r.organizers.FindByID(ctx, subjectID)
	if err == nil && organizer != nil {
		return Principal{
			ID:    organizer.ID,
			Kind:  KindOrganizer,
			Role:  RoleOrganizer,
			Name:  organizer.Name,
			Email: organizer.Email,
		}, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Principal{}, fmt.Errorf("%w: organizer lookup: %v", ErrStoreUnavailable, err)
	}

	return Principal{}, ErrSubjectNotFound
}

// normalizeUserRole keeps the stored role verbatim for known values and
// degrades unknown values to plain user. No implicit elevation.
func normalizeUserRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUser
	}
}
