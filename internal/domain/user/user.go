// Package user provides user domain models and behaviors.
package user

import (
	"context"
	"errors"
	"time"
)

// User models a club member resolved from the external identity provider.
// The ID is the stable subject claim of the provider token.
type User struct {
	ID           string
	AuthProvider string
	Issuer       string
	Subject      string
	Email        *string
	Name         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity encapsulates the externally provided identity attributes.
type Identity struct {
	Provider string
	Issuer   string
	Subject  string
	Email    *string
	Name     *string
}

// Repository defines storage operations for users.
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	Upsert(ctx context.Context, user *User) (*User, error)
}

// ProfileBootstrapper creates the member profile on first sign-in.
type ProfileBootstrapper interface {
	EnsureProfile(ctx context.Context, userID string) error
}

// ErrInvalidIdentity indicates missing issuer or subject on the identity payload.
var ErrInvalidIdentity = errors.New("invalid identity: issuer and subject are required")

// Service persists and resolves users from external identities.
type Service struct {
	repo     Repository
	profiles ProfileBootstrapper
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository, profiles ProfileBootstrapper) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// EnsureUser persists the given identity and returns the internal user
// record. A member profile is created alongside the first user row.
func (s *Service) EnsureUser(ctx context.Context, identity Identity) (*User, error) {
	if identity.Issuer == "" || identity.Subject == "" {
		return nil, ErrInvalidIdentity
	}

	authProvider := identity.Provider
	if authProvider == "" {
		authProvider = "oidc"
	}

	usr := &User{
		ID:           identity.Subject,
		AuthProvider: authProvider,
		Issuer:       identity.Issuer,
		Subject:      identity.Subject,
		Email:        identity.Email,
		Name:         identity.Name,
	}

	usr, err := s.repo.Upsert(ctx, usr)
	if err != nil {
		return nil, err
	}
	if s.profiles != nil {
		if err := s.profiles.EnsureProfile(ctx, usr.ID); err != nil {
			return nil, err
		}
	}
	return usr, nil
}
