package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Key returns the cache key for these coordinates, rounded to two decimals.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.2f,%.2f", c.Lat, c.Lon)
}

// Reading is the weather view exposed to templates as {{weather.*}}.
// The JSON names are the template variable names; optional values are
// pointers or omitempty strings so {{#if}} can test for them.
type Reading struct {
	Description   string    `json:"description"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"windSpeed"`
	Pressure      float64   `json:"pressure"`
	Visibility    float64   `json:"visibility"`
	Icon          string    `json:"icon"`
	FeelsLike     *float64  `json:"feelsLike,omitempty"`
	TempMin       *float64  `json:"tempMin,omitempty"`
	TempMax       *float64  `json:"tempMax,omitempty"`
	Sunrise       string    `json:"sunrise,omitempty"`
	Sunset        string    `json:"sunset,omitempty"`
	WindDirection string    `json:"windDirection,omitempty"`
	WindPower     string    `json:"windPower,omitempty"`
	Condition     Condition `json:"condition"`

	Provider   string    `json:"provider"`
	ObservedAt time.Time `json:"observedAt"` // always UTC
}

// Float returns a pointer to v, for the optional Reading fields.
func Float(v float64) *float64 {
	return &v
}
