package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-note/internal/common"
	"github.com/i474232898/weather-note/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, at weather.Coordinates) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// WeatherAPI uses "q" for location; it accepts "lat,lon".
	values.Set("q", fmt.Sprintf("%f,%f", at.Lat, at.Lon))
	values.Set("days", "1")
	values.Set("lang", "zh")

	var payload struct {
		Location struct {
			LocaltimeEpoch int64 `json:"localtime_epoch"`
		} `json:"location"`
		Current struct {
			TempC      float64 `json:"temp_c"`
			FeelsLikeC float64 `json:"feelslike_c"`
			Humidity   float64 `json:"humidity"`
			WindKph    float64 `json:"wind_kph"`
			WindDegree float64 `json:"wind_degree"`
			PressureMb float64 `json:"pressure_mb"`
			VisKm      float64 `json:"vis_km"`
			Condition  struct {
				Text string `json:"text"`
				Icon string `json:"icon"`
			} `json:"condition"`
		} `json:"current"`
		Forecast struct {
			Forecastday []struct {
				Day struct {
					MaxtempC float64 `json:"maxtemp_c"`
					MintempC float64 `json:"mintemp_c"`
				} `json:"day"`
				Astro struct {
					Sunrise string `json:"sunrise"`
					Sunset  string `json:"sunset"`
				} `json:"astro"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Reading{}, err
	}

	ts := time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	if payload.Location.LocaltimeEpoch == 0 {
		ts = time.Now().UTC()
	}

	// Convert wind from kph to m/s (approx).
	windMS := payload.Current.WindKph / 3.6

	r := weather.Reading{
		Description:   payload.Current.Condition.Text,
		Temperature:   payload.Current.TempC,
		Humidity:      payload.Current.Humidity,
		WindSpeed:     windMS,
		Pressure:      payload.Current.PressureMb,
		Visibility:    payload.Current.VisKm,
		Icon:          payload.Current.Condition.Icon,
		FeelsLike:     weather.Float(payload.Current.FeelsLikeC),
		WindDirection: weather.WindDirection(payload.Current.WindDegree),
		WindPower:     weather.WindPower(windMS),
		Condition:     mapWeatherAPICondition(payload.Current.Condition.Text),
		Provider:      p.name,
		ObservedAt:    ts,
	}
	if days := payload.Forecast.Forecastday; len(days) > 0 {
		r.TempMin = weather.Float(days[0].Day.MintempC)
		r.TempMax = weather.Float(days[0].Day.MaxtempC)
		r.Sunrise = days[0].Astro.Sunrise
		r.Sunset = days[0].Astro.Sunset
	}
	return r, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder", "storm", "雷"):
		return weather.ConditionStorm
	case common.HasAny(text, "snow", "sleet", "blizzard", "雪"):
		return weather.ConditionSnow
	case common.HasAny(text, "rain", "shower", "drizzle", "雨"):
		return weather.ConditionRain
	case common.HasAny(text, "fog", "mist", "雾"):
		return weather.ConditionMist
	case common.HasAny(text, "cloud", "overcast", "云", "阴"):
		return weather.ConditionCloudy
	case common.HasAny(text, "sunny", "clear", "晴"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
