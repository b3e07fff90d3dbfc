package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thithikshaslt/mcp-server/internal/domain"
	"github.com/thithikshaslt/mcp-server/internal/repository"
)

// New accounts start with a small grant so the demo marketplace is usable
// immediately after registration.
const initialBalance = 100.0

// Auth covers registration, login and profile detail updates.
type Auth struct {
	profiles repository.ProfileRepository
	identity *Identity
	log      zerolog.Logger
}

func NewAuth(profiles repository.ProfileRepository, identity *Identity, log zerolog.Logger) *Auth {
	return &Auth{
		profiles: profiles,
		identity: identity,
		log:      log,
	}
}

// CheckUser returns how many accounts carry the given name (exact match).
func (s *Auth) CheckUser(ctx context.Context, name string) (int64, error) {
	return s.profiles.CountByName(ctx, name)
}

// Login verifies email and password and returns the account role.
func (s *Auth) Login(ctx context.Context, email, password string) (domain.Role, error) {
	profile, err := s.profiles.FindByCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

// RegisterInput is a register_user request after boundary validation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    *int64
	Address  *string
}

// Register creates a profile with the starting balance and an empty cart.
func (s *Auth) Register(ctx context.Context, in RegisterInput) (string, error) {
	profile := &domain.Profile{
		Name:     in.Name,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     domain.Role(strings.ToLower(in.Role)),
		Balance:  initialBalance,
		Cart:     []domain.CartLine{},
	}

	id, err := s.profiles.Insert(ctx, profile)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("email", profile.Email).Str("role", string(profile.Role)).Msg("profile registered")
	return id, nil
}

// UpdateDetails changes name, phone and/or address on the profile matching
// the credentials. Returns false when nothing changed.
func (s *Auth) UpdateDetails(ctx context.Context, email, password string, upd domain.ProfileUpdate) (bool, error) {
	current, err := s.profiles.FindByCredentials(ctx, email, password)
	if err != nil {
		return false, err
	}

	modified, err := s.profiles.UpdateDetails(ctx, email, password, upd)
	if err != nil {
		return false, err
	}

	if modified && upd.Name != nil {
		// Both old and new names may be cached against this profile.
		s.identity.Invalidate(ctx, current.Name)
		s.identity.Invalidate(ctx, *upd.Name)
	}
	return modified, nil
}
