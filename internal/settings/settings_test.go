package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-note/internal/tmpl"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, "openweather", s.WeatherProvider)
	assert.Equal(t, LocationIP, s.LocationProvider)
	assert.Equal(t, tmpl.DefaultTemplate, s.Template)
	assert.NoError(t, s.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"unknown weather provider", func(s *Settings) { s.WeatherProvider = "nope" }, true},
		{"unknown location provider", func(s *Settings) { s.LocationProvider = "wifi" }, true},
		{"manual without location", func(s *Settings) { s.LocationProvider = LocationManual }, true},
		{"manual with location", func(s *Settings) {
			s.LocationProvider = LocationManual
			s.ManualLocation = "长沙,28.2,112.9"
		}, false},
		{"city out of range", func(s *Settings) {
			s.FavoriteCities = []FavoriteCity{{Name: "x", Lat: 91}}
		}, true},
		{"duplicate city", func(s *Settings) {
			s.FavoriteCities = []FavoriteCity{{Name: "长沙"}, {Name: "长沙"}}
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(&s)
			if tc.wantErr {
				assert.ErrorIs(t, s.Validate(), ErrInvalid)
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	s := Settings{WeatherAPIKey: "k"}.WithDefaults()
	assert.Equal(t, "k", s.WeatherAPIKey)
	assert.Equal(t, "openweather", s.WeatherProvider)
	assert.Equal(t, tmpl.DefaultTemplate, s.Template)
	assert.NotNil(t, s.FavoriteCities)
}

func TestFavoriteCities(t *testing.T) {
	s := Default()

	s, err := s.AddCity(FavoriteCity{Name: " Paris ", Lat: 48.85, Lon: 2.35})
	require.NoError(t, err)
	s, err = s.AddCity(FavoriteCity{Name: "长沙", Lat: 28.2, Lon: 112.9})
	require.NoError(t, err)

	_, err = s.AddCity(FavoriteCity{Name: "paris"})
	assert.ErrorIs(t, err, ErrCityExists)
	_, err = s.AddCity(FavoriteCity{Name: ""})
	assert.Error(t, err)

	c, err := s.City("PARIS")
	require.NoError(t, err)
	assert.Equal(t, "Paris", c.Name)
	assert.Equal(t, 48.85, c.Coordinates().Lat)

	s2, err := s.RemoveCity("paris")
	require.NoError(t, err)
	assert.Len(t, s2.FavoriteCities, 1)
	assert.Len(t, s.FavoriteCities, 2, "receiver is untouched")

	_, err = s2.RemoveCity("paris")
	assert.ErrorIs(t, err, ErrCityNotFound)
}
