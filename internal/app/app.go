// Package app assembles the services from configuration and keeps the
// active providers in sync with the user's settings.
package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-note/internal/config"
	"github.com/i474232898/weather-note/internal/location"
	"github.com/i474232898/weather-note/internal/logging"
	"github.com/i474232898/weather-note/internal/notes"
	"github.com/i474232898/weather-note/internal/settings"
	"github.com/i474232898/weather-note/internal/store"
	"github.com/i474232898/weather-note/internal/weather"
	"github.com/i474232898/weather-note/internal/weather/providers"
)

// App bundles everything the HTTP API and the scheduler need.
type App struct {
	Config    *config.AppConfig
	Settings  *store.SettingsFile
	Documents store.Documents
	Weather   *weather.Service
	Location  *location.Service
	Notes     *notes.Service

	client   *http.Client
	geocoder *location.GoogleGeocoder
	logger   zerolog.Logger
}

// New opens the stores and builds services for the saved settings.
func New(cfg *config.AppConfig) (*App, error) {
	docs, err := openDocuments(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Settings:  store.NewSettingsFile(cfg.SettingsPath),
		Documents: docs,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		geocoder:  location.NewGoogleGeocoder(cfg.GeocoderAPIKey),
		logger:    logging.Component("app"),
	}

	s, err := a.Settings.Load()
	if err != nil {
		docs.Close()
		return nil, err
	}

	a.Weather = weather.NewService(a.weatherProvider(s), 0)
	a.Location = location.NewService(a.locationProvider(s), 0)
	a.Notes = notes.NewService(a.Weather, a.Location, a.Settings, docs)
	return a, nil
}

func openDocuments(cfg *config.AppConfig) (store.Documents, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.StorePath, cfg.StoreMaxHistory)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	default:
		return store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge), nil
	}
}

// CurrentSettings returns the saved settings.
func (a *App) CurrentSettings() (settings.Settings, error) {
	return a.Settings.Load()
}

// UpdateSettings validates, saves and applies s.
func (a *App) UpdateSettings(s settings.Settings) error {
	s = s.WithDefaults()
	if err := a.Settings.Save(s); err != nil {
		return err
	}
	a.Apply(s)
	return nil
}

// Apply points the services at the providers s selects.
func (a *App) Apply(s settings.Settings) {
	a.Weather.SetProvider(a.weatherProvider(s))
	a.Location.SetProvider(a.locationProvider(s))
	a.logger.Info().
		Str("weather", s.WeatherProvider).
		Str("location", s.LocationProvider).
		Msg("providers applied")
}

// ClearCaches drops cached weather readings and location fixes.
func (a *App) ClearCaches() {
	a.Weather.ClearCache()
	a.Location.ClearCache()
}

func (a *App) Close() error {
	return a.Documents.Close()
}

func (a *App) weatherProvider(s settings.Settings) weather.Provider {
	return providers.New(s.WeatherProvider, a.client, providers.Keys{
		OpenWeather: s.WeatherAPIKey,
		WeatherAPI:  s.WeatherAPIKey,
		Amap:        s.AmapKey,
	})
}

func (a *App) locationProvider(s settings.Settings) location.Provider {
	switch s.LocationProvider {
	case settings.LocationManual:
		var geo location.CityGeocoder
		if a.Config.GeocoderAPIKey != "" {
			geo = a.geocoder.Forward
		}
		return location.NewManualProvider(s.ManualLocation, geo)
	case settings.LocationGPS:
		if a.Config.HasDevice() && a.Config.GeocoderAPIKey != "" {
			at := weather.Coordinates{Lat: a.Config.DeviceLat, Lon: a.Config.DeviceLon}
			return location.NewDeviceProvider(at, a.geocoder)
		}
		a.logger.Warn().Msg("gps location needs DEVICE_LAT, DEVICE_LON and a geocoder key; using ip location")
	}
	return location.NewIPProvider(a.client)
}
