package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-note/internal/location"
	"github.com/i474232898/weather-note/internal/logging"
	"github.com/i474232898/weather-note/internal/settings"
	"github.com/i474232898/weather-note/internal/weather"
)

const jobTimeout = 30 * time.Second

type WeatherSource interface {
	Get(ctx context.Context, at weather.Coordinates) (weather.Reading, error)
}

type LocationSource interface {
	Current(ctx context.Context) (location.Fix, error)
}

type SettingsSource interface {
	Load() (settings.Settings, error)
}

// Scheduler periodically refreshes the location fix and the weather for the
// current location and every favorite city, so notes render from warm caches.
type Scheduler struct {
	scheduler *gocron.Scheduler
	weather   WeatherSource
	location  LocationSource
	settings  SettingsSource
	interval  time.Duration
	logger    zerolog.Logger
}

// New creates a new Scheduler. An interval <= 0 disables it.
func New(interval time.Duration, w WeatherSource, l LocationSource, s SettingsSource) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		weather:   w,
		location:  l,
		settings:  s,
		interval:  interval,
		logger:    logging.Component("scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info().Msg("refresh interval not set; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.Warm(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Warm fetches weather for every known place and returns how many fetches
// succeeded.
func (s *Scheduler) Warm(ctx context.Context) int {
	targets := s.targets(ctx)
	if len(targets) == 0 {
		s.logger.Debug().Msg("no locations to refresh")
		return 0
	}

	s.logger.Debug().Int("locations", len(targets)).Msg("running weather refresh job")

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for name, at := range targets {
		wg.Add(1)
		go func(name string, at weather.Coordinates) {
			defer wg.Done()

			if _, err := s.weather.Get(ctx, at); err != nil {
				s.logger.Warn().Err(err).Str("place", name).Msg("refresh failed")
				return
			}
			mu.Lock()
			ok++
			mu.Unlock()
		}(name, at)
	}
	wg.Wait()

	s.logger.Debug().Int("refreshed", ok).Msg("completed weather refresh job")
	return ok
}

// targets maps a place name to its coordinates. Places sharing coordinates
// are fetched once.
func (s *Scheduler) targets(ctx context.Context) map[string]weather.Coordinates {
	out := make(map[string]weather.Coordinates)
	seen := make(map[string]bool)
	add := func(name string, at weather.Coordinates) {
		if seen[at.Key()] {
			return
		}
		seen[at.Key()] = true
		out[name] = at
	}

	if fix, err := s.location.Current(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("current location unavailable")
	} else {
		add("current:"+fix.City, fix.Coordinates())
	}

	cfg, err := s.settings.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("settings unavailable")
		return out
	}
	for _, c := range cfg.FavoriteCities {
		add(c.Name, c.Coordinates())
	}
	return out
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
