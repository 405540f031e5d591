// Package notes builds template contexts from live weather and location data
// and writes rendered notes into document blocks.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-note/internal/location"
	"github.com/i474232898/weather-note/internal/logging"
	"github.com/i474232898/weather-note/internal/settings"
	"github.com/i474232898/weather-note/internal/store"
	"github.com/i474232898/weather-note/internal/tmpl"
	"github.com/i474232898/weather-note/internal/weather"
)

// TimeLayout is how {{time}} is rendered.
const TimeLayout = "2006/1/2 15:04:05"

var (
	// ErrNoData is returned when weather or location could not be obtained.
	ErrNoData = errors.New("weather or location data unavailable")
	// ErrEmptyTemplate is returned when the configured template renders to nothing.
	ErrEmptyTemplate = errors.New("template rendered empty")
)

type WeatherSource interface {
	Get(ctx context.Context, at weather.Coordinates) (weather.Reading, error)
}

type LocationSource interface {
	Current(ctx context.Context) (location.Fix, error)
}

type SettingsSource interface {
	Load() (settings.Settings, error)
}

// Service renders notes.
type Service struct {
	weather   WeatherSource
	location  LocationSource
	settings  SettingsSource
	documents store.Documents
	engine    *tmpl.Engine

	now    func() time.Time
	newID  func() string
	logger zerolog.Logger
}

func NewService(w WeatherSource, l LocationSource, s SettingsSource, docs store.Documents) *Service {
	logger := logging.Component("notes")
	return &Service{
		weather:   w,
		location:  l,
		settings:  s,
		documents: docs,
		engine: tmpl.NewEngine(tmpl.WithMissHandler(func(directive, path string) {
			logger.Debug().Str("directive", directive).Str("path", path).Msg("unresolved template variable")
		})),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// TemplateData returns {weather, location, time} for the current location.
func (s *Service) TemplateData(ctx context.Context) (tmpl.Value, error) {
	fix, reading, err := s.current(ctx)
	if err != nil {
		return tmpl.Null(), err
	}
	return s.contextOf(reading, fix), nil
}

// TemplateDataForCity returns the context for a favorite city. Address parts
// other than the city name are empty.
func (s *Service) TemplateDataForCity(ctx context.Context, city settings.FavoriteCity) (tmpl.Value, error) {
	reading, err := s.weather.Get(ctx, city.Coordinates())
	if err != nil {
		return tmpl.Null(), fmt.Errorf("%w: weather for %s: %w", ErrNoData, city.Name, err)
	}
	fix := location.Fix{
		City:   city.Name,
		Lat:    city.Lat,
		Lon:    city.Lon,
		Source: location.SourceFavorite,
	}
	return s.contextOf(reading, fix), nil
}

// Render renders an arbitrary template against the current data.
func (s *Service) Render(ctx context.Context, template string) (string, error) {
	data, err := s.TemplateData(ctx)
	if err != nil {
		return "", err
	}
	return s.render(template, data)
}

// RenderData renders template against caller supplied data. Unlike the
// other render methods it never fails; unresolved directives stay as text.
func (s *Service) RenderData(template string, data tmpl.Value) string {
	return s.engine.Render(template, data)
}

// RenderTemplate renders the configured template for the current location.
func (s *Service) RenderTemplate(ctx context.Context) (string, error) {
	cfg, err := s.settings.Load()
	if err != nil {
		return "", err
	}
	return s.Render(ctx, cfg.Template)
}

// RenderForCity renders the configured template for the named favorite city.
func (s *Service) RenderForCity(ctx context.Context, name string) (string, error) {
	cfg, err := s.settings.Load()
	if err != nil {
		return "", err
	}
	city, err := cfg.City(name)
	if err != nil {
		return "", err
	}
	data, err := s.TemplateDataForCity(ctx, city)
	if err != nil {
		return "", err
	}
	return s.render(cfg.Template, data)
}

// InsertTemplate renders the configured template into the block. An empty
// blockID creates a new block.
func (s *Service) InsertTemplate(ctx context.Context, blockID string) (store.Block, error) {
	content, err := s.RenderTemplate(ctx)
	if err != nil {
		return store.Block{}, err
	}
	return s.insert(ctx, blockID, store.KindTemplate, content)
}

// InsertWeather writes the one-line weather summary into the block.
func (s *Service) InsertWeather(ctx context.Context, blockID string) (store.Block, error) {
	_, reading, err := s.current(ctx)
	if err != nil {
		return store.Block{}, err
	}
	return s.insert(ctx, blockID, store.KindWeather, FormatWeather(reading))
}

// InsertLocation writes the one-line location summary into the block.
func (s *Service) InsertLocation(ctx context.Context, blockID string) (store.Block, error) {
	fix, err := s.location.Current(ctx)
	if err != nil {
		return store.Block{}, fmt.Errorf("%w: location: %w", ErrNoData, err)
	}
	return s.insert(ctx, blockID, store.KindLocation, FormatLocation(fix))
}

func (s *Service) current(ctx context.Context) (location.Fix, weather.Reading, error) {
	fix, err := s.location.Current(ctx)
	if err != nil {
		return location.Fix{}, weather.Reading{}, fmt.Errorf("%w: location: %w", ErrNoData, err)
	}
	reading, err := s.weather.Get(ctx, fix.Coordinates())
	if err != nil {
		return location.Fix{}, weather.Reading{}, fmt.Errorf("%w: weather: %w", ErrNoData, err)
	}
	return fix, reading, nil
}

func (s *Service) contextOf(reading weather.Reading, fix location.Fix) tmpl.Value {
	return tmpl.Mapping(map[string]tmpl.Value{
		"weather":  tmpl.FromAny(reading),
		"location": tmpl.FromAny(fix),
		"time":     tmpl.String(s.now().Format(TimeLayout)),
	})
}

func (s *Service) render(template string, data tmpl.Value) (string, error) {
	out := s.engine.Render(template, data)
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyTemplate
	}
	return out, nil
}

func (s *Service) insert(ctx context.Context, blockID string, kind store.Kind, content string) (store.Block, error) {
	if blockID == "" {
		blockID = s.newID()
	}
	b := store.Block{
		ID:        blockID,
		Kind:      kind,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.documents.Save(ctx, b); err != nil {
		return store.Block{}, fmt.Errorf("save block %s: %w", blockID, err)
	}
	s.logger.Info().Str("block", blockID).Str("kind", string(kind)).Msg("note inserted")
	return b, nil
}
