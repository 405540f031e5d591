package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-note/internal/cache"
	"github.com/i474232898/weather-note/internal/logging"
)

// DefaultCacheTTL is how long a fix is reused before locating again.
const DefaultCacheTTL = 30 * time.Minute

// Service returns the current location using the configured provider.
type Service struct {
	mu       sync.RWMutex
	provider Provider

	cache  *cache.TTL[Fix]
	logger zerolog.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		provider: provider,
		cache:    cache.New[Fix](ttl),
		logger:   logging.Component("location"),
	}
}

// SetProvider swaps the active provider and forgets the cached fix.
func (s *Service) SetProvider(p Provider) {
	s.mu.Lock()
	s.provider = p
	s.mu.Unlock()
	s.cache.Clear()
}

// Current returns the current fix, from cache when fresh.
func (s *Service) Current(ctx context.Context) (Fix, error) {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()

	if p == nil {
		return Fix{}, fmt.Errorf("no location provider configured")
	}
	if fix, ok := s.cache.Get(p.Name()); ok {
		return fix, nil
	}

	fix, err := p.Locate(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", p.Name()).Msg("locate failed")
		return Fix{}, fmt.Errorf("locate via %s: %w", p.Name(), err)
	}
	s.logger.Debug().Str("provider", p.Name()).Str("city", fix.City).Msg("located")

	s.cache.Set(p.Name(), fix)
	return fix, nil
}

// ClearCache forgets the cached fix.
func (s *Service) ClearCache() {
	s.cache.Clear()
}
