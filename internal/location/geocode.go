package location

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-note/internal/weather"
)

// geocoder keeps its API key in a package variable.
var geocoderKeyMu sync.Mutex

type reverseFunc func(geocoder.Location) ([]geocoder.Address, error)

type forwardFunc func(geocoder.Address) (geocoder.Location, error)

// GoogleGeocoder wraps the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey  string
	reverse reverseFunc
	forward forwardFunc
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:  apiKey,
		reverse: geocoder.GeocodingReverse,
		forward: geocoder.Geocoding,
	}
}

func (g *GoogleGeocoder) withKey(fn func() error) error {
	if g.apiKey == "" {
		return errors.New("geocoder api key is not configured")
	}
	geocoderKeyMu.Lock()
	defer geocoderKeyMu.Unlock()
	geocoder.ApiKey = g.apiKey
	return fn()
}

// Reverse turns coordinates into a fix with address parts filled in.
func (g *GoogleGeocoder) Reverse(ctx context.Context, at weather.Coordinates) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}

	var addrs []geocoder.Address
	err := g.withKey(func() error {
		var err error
		addrs, err = g.reverse(geocoder.Location{Latitude: at.Lat, Longitude: at.Lon})
		return err
	})
	if err != nil {
		return Fix{}, fmt.Errorf("reverse geocode %s: %w", at.Key(), err)
	}
	if len(addrs) == 0 {
		return Fix{}, fmt.Errorf("reverse geocode %s: no results", at.Key())
	}

	a := addrs[0]
	number := fmt.Sprint(a.Number)
	if number == "0" {
		number = ""
	}
	city := TranslateCity(a.City)
	if city == "" {
		city = TranslateCity(a.County)
	}
	province := TranslateCity(a.State)

	formatted := a.FormattedAddress
	if formatted == "" {
		formatted = a.FormatAddress()
	}

	return Fix{
		City:             city,
		Country:          a.Country,
		Lat:              at.Lat,
		Lon:              at.Lon,
		FormattedAddress: formatted,
		Source:           SourceGPS,
		Province:         province,
		District:         a.District,
		Township:         a.Neighborhood,
		Street:           a.Street,
		StreetNumber:     number,
		Region:           province,
	}, nil
}

// Forward resolves a city name to coordinates. It satisfies CityGeocoder.
func (g *GoogleGeocoder) Forward(ctx context.Context, city string) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	var loc geocoder.Location
	err := g.withKey(func() error {
		var err error
		loc, err = g.forward(geocoder.Address{City: city})
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return loc.Latitude, loc.Longitude, nil
}

// DeviceProvider reverse geocodes a fixed device position.
type DeviceProvider struct {
	at       weather.Coordinates
	geocoder *GoogleGeocoder
}

func NewDeviceProvider(at weather.Coordinates, g *GoogleGeocoder) *DeviceProvider {
	return &DeviceProvider{at: at, geocoder: g}
}

func (p *DeviceProvider) Name() string {
	return string(SourceGPS)
}

func (p *DeviceProvider) Locate(ctx context.Context) (Fix, error) {
	return p.geocoder.Reverse(ctx, p.at)
}
