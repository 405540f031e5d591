package location

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoManualLocation is returned when no manual location is configured.
var ErrNoManualLocation = errors.New("manual location is not configured")

// CityGeocoder resolves a bare city name to coordinates.
type CityGeocoder func(ctx context.Context, city string) (lat, lon float64, err error)

// ManualProvider serves a location typed in by the user, either
// "City,lat,lon" or "City,Country,lat,lon". A bare city name works only
// when a CityGeocoder is available.
type ManualProvider struct {
	raw      string
	geocoder CityGeocoder
}

func NewManualProvider(raw string, geocoder CityGeocoder) *ManualProvider {
	return &ManualProvider{raw: strings.TrimSpace(raw), geocoder: geocoder}
}

func (p *ManualProvider) Name() string {
	return string(SourceManual)
}

func (p *ManualProvider) Locate(ctx context.Context) (Fix, error) {
	if p.raw == "" {
		return Fix{}, ErrNoManualLocation
	}

	parts := strings.Split(p.raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var (
		city, country string
		latStr        string
		lonStr        string
	)
	switch {
	case len(parts) >= 4:
		city, country, latStr, lonStr = parts[0], parts[1], parts[2], parts[3]
	case len(parts) == 3:
		city, latStr, lonStr = parts[0], parts[1], parts[2]
	default:
		return p.geocode(ctx, parts[0])
	}

	lat, err1 := strconv.ParseFloat(latStr, 64)
	lon, err2 := strconv.ParseFloat(lonStr, 64)
	if city == "" || err1 != nil || err2 != nil {
		return Fix{}, fmt.Errorf("invalid manual location %q: want \"City,lat,lon\"", p.raw)
	}
	return manualFix(city, country, lat, lon), nil
}

func (p *ManualProvider) geocode(ctx context.Context, city string) (Fix, error) {
	if p.geocoder == nil || city == "" {
		return Fix{}, fmt.Errorf("invalid manual location %q: coordinates are required", p.raw)
	}
	lat, lon, err := p.geocoder(ctx, city)
	if err != nil {
		return Fix{}, fmt.Errorf("geocode %q: %w", city, err)
	}
	return manualFix(city, "", lat, lon), nil
}

func manualFix(city, country string, lat, lon float64) Fix {
	return Fix{
		City:             city,
		Country:          country,
		Lat:              lat,
		Lon:              lon,
		FormattedAddress: joinAddress(city, country),
		Source:           SourceManual,
	}
}
