package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-note/internal/cache"
	"github.com/i474232898/weather-note/internal/logging"
)

// DefaultCacheTTL is how long a reading is reused for the same coordinates.
const DefaultCacheTTL = 15 * time.Minute

// Service fetches readings from the configured provider and memoizes them.
type Service struct {
	mu       sync.RWMutex
	provider Provider

	cache  *cache.TTL[Reading]
	logger zerolog.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		provider: provider,
		cache:    cache.New[Reading](ttl),
		logger:   logging.Component("weather"),
	}
}

// SetProvider swaps the active provider, e.g. after a settings change.
// Cached readings are keyed by provider name and stay valid.
func (s *Service) SetProvider(p Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

// ProviderName returns the name of the active provider.
func (s *Service) ProviderName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Get returns the reading for the given coordinates, from cache when fresh.
func (s *Service) Get(ctx context.Context, at Coordinates) (Reading, error) {
	s.mu.RLock()
	p := s.provider
	s.mu.RUnlock()

	if p == nil {
		return Reading{}, fmt.Errorf("no weather provider configured")
	}

	key := p.Name() + "-" + at.Key()
	if r, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("key", key).Msg("using cached weather reading")
		return r, nil
	}

	r, err := p.Fetch(ctx, at)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", p.Name()).Str("at", at.Key()).Msg("weather fetch failed")
		return Reading{}, fmt.Errorf("fetch weather from %s: %w", p.Name(), err)
	}
	if r.Provider == "" {
		r.Provider = p.Name()
	}
	if r.ObservedAt.IsZero() {
		r.ObservedAt = time.Now().UTC()
	}

	s.cache.Set(key, r)
	return r, nil
}

// ClearCache drops every cached reading.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info().Msg("weather cache cleared")
}
