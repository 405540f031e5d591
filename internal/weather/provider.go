package weather

import (
	"context"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap, AMap, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, at Coordinates) (Reading, error)
}
