package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/thithikshaslt/mcp-server/internal/cache"
	"github.com/thithikshaslt/mcp-server/internal/repository"
)

// Identity resolves human-readable account names to canonical emails.
// Matching is case-insensitive exact; when several profiles share a name the
// first match the store returns wins.
type Identity struct {
	profiles repository.ProfileRepository
	cache    cache.IdentityCache
	sfg      singleflight.Group // collapses concurrent lookups for one name
	log      zerolog.Logger
}

func NewIdentity(profiles repository.ProfileRepository, c cache.IdentityCache, log zerolog.Logger) *Identity {
	return &Identity{
		profiles: profiles,
		cache:    c,
		log:      log,
	}
}

// ResolveEmail maps a name to an email, consulting the cache first.
// Returns repository.ErrNameNotFound when no profile matches.
func (s *Identity) ResolveEmail(ctx context.Context, name string) (string, error) {
	key := identityKey(name)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		email, err := s.cache.Get(ctx, key)
		if err == nil {
			return email, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("name", name).Msg("identity cache get failed")
		}

		email, err = s.profiles.FindEmailByName(ctx, name)
		if err != nil {
			return "", err
		}

		if err := s.cache.Set(ctx, key, email); err != nil {
			s.log.Warn().Err(err).Str("name", name).Msg("identity cache set failed")
		}
		return email, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached resolution for a name, e.g. after a profile
// rename.
func (s *Identity) Invalidate(ctx context.Context, name string) {
	if err := s.cache.Delete(ctx, identityKey(name)); err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("identity cache invalidate failed")
	}
}

func identityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
