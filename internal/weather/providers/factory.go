package providers

import (
	"net/http"

	"github.com/i474232898/weather-note/internal/logging"
	"github.com/i474232898/weather-note/internal/weather"
)

// Keys carries the credentials the keyed providers need.
type Keys struct {
	OpenWeather string
	WeatherAPI  string
	Amap        string
}

// Names lists every provider New understands.
var Names = []string{"openweather", "amap", "openmeteo", "weatherapi", "mock"}

// New builds the named provider. Unknown names fall back to openweather,
// and a keyed provider without its key is replaced by the mock provider.
func New(name string, client *http.Client, keys Keys) weather.Provider {
	logger := logging.Component("providers")

	switch name {
	case "openmeteo":
		return NewOpenMeteoProvider(client)
	case "mock":
		return NewMockProvider()
	case "amap":
		if keys.Amap == "" {
			logger.Warn().Msg("amap key not configured; using mock weather data")
			return NewMockProvider()
		}
		return NewAmapProvider(client, keys.Amap)
	case "weatherapi":
		if keys.WeatherAPI == "" {
			logger.Warn().Msg("weatherapi key not configured; using mock weather data")
			return NewMockProvider()
		}
		return NewWeatherAPIProvider(client, keys.WeatherAPI)
	}

	if keys.OpenWeather == "" {
		logger.Warn().Msg("openweather key not configured; using mock weather data")
		return NewMockProvider()
	}
	return NewOpenWeatherProvider(client, keys.OpenWeather)
}
