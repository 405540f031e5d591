// Package settings holds the user preferences that drive note rendering.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-note/internal/tmpl"
	"github.com/i474232898/weather-note/internal/weather"
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid settings")
	// ErrCityNotFound is returned when a favorite city is not in the list.
	ErrCityNotFound = errors.New("favorite city not found")
	// ErrCityExists is returned when adding a city whose name is taken.
	ErrCityExists = errors.New("favorite city already exists")
)

const (
	LocationIP     = "ip"
	LocationManual = "manual"
	LocationGPS    = "gps"
)

// FavoriteCity is a saved place the user can render a note for.
type FavoriteCity struct {
	Name string  `yaml:"name" json:"name" validate:"required"`
	Lat  float64 `yaml:"lat" json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `yaml:"lon" json:"lon" validate:"gte=-180,lte=180"`
}

func (c FavoriteCity) Coordinates() weather.Coordinates {
	return weather.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

// Settings is the persisted preference set.
type Settings struct {
	WeatherAPIKey    string         `yaml:"weatherApiKey" json:"weatherApiKey"`
	WeatherProvider  string         `yaml:"weatherProvider" json:"weatherProvider" validate:"oneof=openweather amap openmeteo weatherapi mock"`
	LocationProvider string         `yaml:"locationProvider" json:"locationProvider" validate:"oneof=ip manual gps"`
	ManualLocation   string         `yaml:"manualLocation" json:"manualLocation" validate:"required_if=LocationProvider manual"`
	Template         string         `yaml:"template" json:"template"`
	AmapKey          string         `yaml:"amapKey" json:"amapKey"`
	FavoriteCities   []FavoriteCity `yaml:"favoriteCities" json:"favoriteCities" validate:"dive"`
}

// Default returns the settings used before the user changes anything.
func Default() Settings {
	return Settings{
		WeatherProvider:  "openweather",
		LocationProvider: LocationIP,
		Template:         tmpl.DefaultTemplate,
		FavoriteCities:   []FavoriteCity{},
	}
}

var validate = validator.New()

// Validate checks provider names, the manual location and every city.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	seen := make(map[string]struct{}, len(s.FavoriteCities))
	for _, c := range s.FavoriteCities {
		key := strings.ToLower(c.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %w: %s", ErrInvalid, ErrCityExists, c.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// WithDefaults fills empty fields from Default.
func (s Settings) WithDefaults() Settings {
	d := Default()
	if s.WeatherProvider == "" {
		s.WeatherProvider = d.WeatherProvider
	}
	if s.LocationProvider == "" {
		s.LocationProvider = d.LocationProvider
	}
	if s.Template == "" {
		s.Template = d.Template
	}
	if s.FavoriteCities == nil {
		s.FavoriteCities = d.FavoriteCities
	}
	return s
}

// City looks a favorite up by name, ignoring case.
func (s Settings) City(name string) (FavoriteCity, error) {
	for _, c := range s.FavoriteCities {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return FavoriteCity{}, fmt.Errorf("%w: %s", ErrCityNotFound, name)
}

// AddCity returns a copy of s with city appended.
func (s Settings) AddCity(city FavoriteCity) (Settings, error) {
	city.Name = strings.TrimSpace(city.Name)
	if err := validate.Struct(city); err != nil {
		return s, fmt.Errorf("%w: city: %w", ErrInvalid, err)
	}
	if _, err := s.City(city.Name); err == nil {
		return s, fmt.Errorf("%w: %s", ErrCityExists, city.Name)
	}
	cities := make([]FavoriteCity, 0, len(s.FavoriteCities)+1)
	cities = append(cities, s.FavoriteCities...)
	s.FavoriteCities = append(cities, city)
	return s, nil
}

// RemoveCity returns a copy of s without the named city.
func (s Settings) RemoveCity(name string) (Settings, error) {
	cities := make([]FavoriteCity, 0, len(s.FavoriteCities))
	found := false
	for _, c := range s.FavoriteCities {
		if strings.EqualFold(c.Name, name) {
			found = true
			continue
		}
		cities = append(cities, c)
	}
	if !found {
		return s, fmt.Errorf("%w: %s", ErrCityNotFound, name)
	}
	s.FavoriteCities = cities
	return s, nil
}
