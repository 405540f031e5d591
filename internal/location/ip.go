package location

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-note/internal/common"
)

// IPProvider locates the machine by its public IP through ipinfo.io.
type IPProvider struct {
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewIPProvider(client *http.Client) *IPProvider {
	return &IPProvider{
		baseURL: "https://ipinfo.io/json",
		httpCfg: common.HTTPClientConfig{
			Client:    client,
			Backoff:   common.DefaultBackoff,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		circuit: common.NewBreaker("ipinfo"),
	}
}

func (p *IPProvider) Name() string {
	return string(SourceIP)
}

func (p *IPProvider) Locate(ctx context.Context) (Fix, error) {
	var payload struct {
		IP       string `json:"ip"`
		City     string `json:"city"`
		Region   string `json:"region"`
		Country  string `json:"country"`
		Loc      string `json:"loc"`
		Timezone string `json:"timezone"`
	}
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, p.baseURL, &payload); err != nil {
		return Fix{}, fmt.Errorf("ipinfo: %w", err)
	}

	lat, lon, err := parseLatLon(payload.Loc)
	if err != nil || lat == 0 || lon == 0 {
		return Fix{}, fmt.Errorf("ipinfo: no usable coordinates in %q", payload.Loc)
	}

	city := payload.City
	if city == "" {
		city = "未知"
	}
	city = TranslateCity(city)
	region := TranslateCity(payload.Region)
	country := payload.Country
	if country == "" {
		country = "未知"
	}

	return Fix{
		City:             city,
		Country:          country,
		Lat:              lat,
		Lon:              lon,
		IP:               payload.IP,
		Timezone:         payload.Timezone,
		FormattedAddress: joinAddress(city, region, payload.Country),
		Source:           SourceIP,
		Province:         region,
		Region:           region,
	}, nil
}

func parseLatLon(s string) (float64, float64, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}
