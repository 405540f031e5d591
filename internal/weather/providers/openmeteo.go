package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-note/internal/common"
	"github.com/i474232898/weather-note/internal/weather"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, at weather.Coordinates) (weather.Reading, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", at.Lat))
	values.Set("longitude", fmt.Sprintf("%f", at.Lon))
	values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,pressure_msl,wind_speed_10m,wind_direction_10m,weather_code")
	values.Set("daily", "temperature_2m_max,temperature_2m_min,sunrise,sunset")
	values.Set("wind_speed_unit", "ms")
	values.Set("timezone", "auto")
	values.Set("forecast_days", "1")

	var payload struct {
		UTCOffsetSeconds int `json:"utc_offset_seconds"`
		Current          struct {
			Time        string  `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			Apparent    float64 `json:"apparent_temperature"`
			Pressure    float64 `json:"pressure_msl"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WindDir     float64 `json:"wind_direction_10m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
		Daily struct {
			TempMax []float64 `json:"temperature_2m_max"`
			TempMin []float64 `json:"temperature_2m_min"`
			Sunrise []string  `json:"sunrise"`
			Sunset  []string  `json:"sunset"`
		} `json:"daily"`
	}

	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return weather.Reading{}, err
	}

	zone := time.FixedZone("", payload.UTCOffsetSeconds)
	ts, err := time.ParseInLocation("2006-01-02T15:04", payload.Current.Time, zone)
	if err != nil {
		ts = time.Now()
	}

	cur := payload.Current
	r := weather.Reading{
		Description:   describeOpenMeteoCode(cur.WeatherCode),
		Temperature:   cur.Temperature,
		Humidity:      cur.Humidity,
		WindSpeed:     cur.WindSpeed,
		Pressure:      cur.Pressure,
		FeelsLike:     weather.Float(cur.Apparent),
		WindDirection: weather.WindDirection(cur.WindDir),
		WindPower:     weather.WindPower(cur.WindSpeed),
		Condition:     mapOpenMeteoCondition(cur.WeatherCode),
		Provider:      p.name,
		ObservedAt:    ts.UTC(),
	}
	if len(payload.Daily.TempMax) > 0 && len(payload.Daily.TempMin) > 0 {
		r.TempMax = weather.Float(payload.Daily.TempMax[0])
		r.TempMin = weather.Float(payload.Daily.TempMin[0])
	}
	if len(payload.Daily.Sunrise) > 0 {
		r.Sunrise = isoClock(payload.Daily.Sunrise[0])
	}
	if len(payload.Daily.Sunset) > 0 {
		r.Sunset = isoClock(payload.Daily.Sunset[0])
	}
	return r, nil
}

// isoClock turns "2024-01-01T07:10" into "07:10:00".
func isoClock(s string) string {
	_, clock, ok := strings.Cut(s, "T")
	if !ok {
		return s
	}
	if strings.Count(clock, ":") == 1 {
		clock += ":00"
	}
	return clock
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on Open-Meteo weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}

func describeOpenMeteoCode(code int) string {
	switch {
	case code == 0:
		return "晴朗"
	case code == 1:
		return "少云"
	case code == 2:
		return "多云"
	case code == 3:
		return "阴"
	case code == 45 || code == 48:
		return "雾"
	case code >= 51 && code <= 57:
		return "毛毛雨"
	case code == 61 || code == 80:
		return "小雨"
	case code == 63 || code == 81:
		return "中雨"
	case code == 65 || code == 82:
		return "大雨"
	case code == 66 || code == 67:
		return "冻雨"
	case code == 71 || code == 85:
		return "小雪"
	case code == 73:
		return "中雪"
	case code == 75 || code == 86:
		return "大雪"
	case code == 77:
		return "雪粒"
	case code >= 95:
		return "雷雨"
	default:
		return "未知"
	}
}
