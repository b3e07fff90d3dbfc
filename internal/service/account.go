package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/thithikshaslt/mcp-server/internal/repository"
)

// Account covers balance reads and top-ups.
type Account struct {
	profiles repository.ProfileRepository
	identity *Identity
	log      zerolog.Logger
}

func NewAccount(profiles repository.ProfileRepository, identity *Identity, log zerolog.Logger) *Account {
	return &Account{
		profiles: profiles,
		identity: identity,
		log:      log,
	}
}

// Balance resolves the name and returns the current balance.
func (s *Account) Balance(ctx context.Context, name string) (float64, error) {
	email, err := s.identity.ResolveEmail(ctx, name)
	if err != nil {
		return 0, err
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return profile.Balance, nil
}

// AddBalance credits the account and returns the new balance. Amount
// positivity is enforced at the tool boundary.
func (s *Account) AddBalance(ctx context.Context, name string, amount float64) (float64, error) {
	email, err := s.identity.ResolveEmail(ctx, name)
	if err != nil {
		return 0, err
	}

	balance, err := s.profiles.CreditBalance(ctx, email, amount)
	if err != nil {
		return 0, err
	}

	s.log.Info().Str("email", email).Float64("amount", amount).Msg("balance credited")
	return balance, nil
}
