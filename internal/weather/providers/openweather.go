package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-note/internal/common"
	"github.com/i474232898/weather-note/internal/weather"
)

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweather",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherPayload struct {
	Dt         int64   `json:"dt"`
	Visibility float64 `json:"visibility"`
	Main       struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, at weather.Coordinates) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", at.Lat))
	values.Set("lon", fmt.Sprintf("%f", at.Lon))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lang", "zh_cn")

	var payload openWeatherPayload
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Reading{}, err
	}
	if len(payload.Weather) == 0 {
		return weather.Reading{}, fmt.Errorf("openweather: malformed payload, no weather entries")
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	visibility := 10.0
	if payload.Visibility > 0 {
		visibility = payload.Visibility / 1000
	}

	w := payload.Weather[0]
	desc := w.Description
	if desc == "" {
		desc = "未知"
	}

	return weather.Reading{
		Description:   weather.TranslateDescription(desc),
		Temperature:   math.Round(payload.Main.Temp),
		Humidity:      payload.Main.Humidity,
		WindSpeed:     payload.Wind.Speed,
		Pressure:      payload.Main.Pressure,
		Visibility:    visibility,
		Icon:          w.Icon,
		FeelsLike:     weather.Float(math.Round(payload.Main.FeelsLike)),
		TempMin:       weather.Float(math.Round(payload.Main.TempMin)),
		TempMax:       weather.Float(math.Round(payload.Main.TempMax)),
		Sunrise:       clockTime(payload.Sys.Sunrise),
		Sunset:        clockTime(payload.Sys.Sunset),
		WindDirection: weather.WindDirection(payload.Wind.Deg),
		WindPower:     weather.WindPower(payload.Wind.Speed),
		Condition:     mapOpenWeatherCondition(w.Main),
		Provider:      p.name,
		ObservedAt:    ts,
	}, nil
}

// clockTime renders a unix timestamp as a local wall clock time, "" for 0.
func clockTime(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).Local().Format("15:04:05")
}

func mapOpenWeatherCondition(main string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
