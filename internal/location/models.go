// Package location resolves where the user is: by IP, by device
// coordinates plus reverse geocoding, or from a manual setting.
package location

import "github.com/i474232898/weather-note/internal/weather"

// Source tells how a Fix was obtained.
type Source string

const (
	SourceIP       Source = "ip"
	SourceGPS      Source = "gps"
	SourceManual   Source = "manual"
	SourceFavorite Source = "favorite"
)

// Fix is the location view exposed to templates as {{location.*}}.
// Unknown address parts are empty strings rather than absent, so templates
// render them as blanks and {{#if}} treats them as false.
type Fix struct {
	City             string  `json:"city"`
	Country          string  `json:"country"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	IP               string  `json:"ip"`
	Timezone         string  `json:"timezone"`
	FormattedAddress string  `json:"formatted_address"`
	Source           Source  `json:"source"`

	Province     string `json:"province"`
	District     string `json:"district"`
	Township     string `json:"township"`
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`

	// Region mirrors Province for templates written against older versions.
	Region string `json:"region"`
}

// Coordinates returns the fix position.
func (f Fix) Coordinates() weather.Coordinates {
	return weather.Coordinates{Lat: f.Lat, Lon: f.Lon}
}

func joinAddress(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
