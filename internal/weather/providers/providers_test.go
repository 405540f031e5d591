package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-note/internal/common"
	"github.com/i474232898/weather-note/internal/weather"
)

var changsha = weather.Coordinates{Lat: 28.2282, Lon: 112.9388}

func fastBackoff() common.BackoffConfig {
	return common.BackoffConfig{MaxRetries: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func TestOpenWeatherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "zh_cn", q.Get("lang"))
		assert.True(t, strings.HasPrefix(q.Get("lat"), "28.228"))
		w.Write([]byte(`{
			"dt": 1700000000,
			"visibility": 8000,
			"main": {"temp": 24.6, "feels_like": 25.4, "temp_min": 20.2, "temp_max": 27.8, "humidity": 55, "pressure": 1012},
			"wind": {"speed": 4.2, "deg": 135},
			"sys": {"sunrise": 0, "sunset": 0},
			"weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}]
		}`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	r, err := p.Fetch(context.Background(), changsha)
	require.NoError(t, err)

	assert.Equal(t, "多云", r.Description)
	assert.Equal(t, float64(25), r.Temperature)
	assert.Equal(t, float64(55), r.Humidity)
	assert.Equal(t, 8.0, r.Visibility)
	assert.Equal(t, "03d", r.Icon)
	require.NotNil(t, r.FeelsLike)
	assert.Equal(t, float64(25), *r.FeelsLike)
	assert.Equal(t, float64(20), *r.TempMin)
	assert.Equal(t, float64(28), *r.TempMax)
	assert.Equal(t, "东南风", r.WindDirection)
	assert.Equal(t, "3级", r.WindPower)
	assert.Equal(t, weather.ConditionCloudy, r.Condition)
	assert.Empty(t, r.Sunrise)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), r.ObservedAt)
}

func TestOpenWeatherRequiresKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")
	_, err := p.Fetch(context.Background(), changsha)
	assert.Error(t, err)
}

func TestOpenWeatherUnauthorizedIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "bad")
	p.baseURL = srv.URL
	p.httpCfg.Backoff = fastBackoff()

	_, err := p.Fetch(context.Background(), changsha)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAmapFetchCachesAdcode(t *testing.T) {
	var regeoCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/geocode/regeo":
			atomic.AddInt32(&regeoCalls, 1)
			assert.True(t, strings.HasPrefix(q.Get("location"), "112.93"))
			w.Write([]byte(`{"status":"1","regeocode":{"addressComponent":{"adcode":"430102"}}}`))
		case "/weather/weatherInfo":
			assert.Equal(t, "430102", q.Get("city"))
			if q.Get("extensions") == "base" {
				w.Write([]byte(`{"status":"1","lives":[{"weather":"多云","temperature":"26","winddirection":"东南","windpower":"≤3","humidity":"70"}]}`))
				return
			}
			w.Write([]byte(`{"status":"1","forecasts":[{"casts":[{"daytemp":"30","nighttemp":"21"}]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewAmapProvider(srv.Client(), "key")
	p.baseURL = srv.URL

	r, err := p.Fetch(context.Background(), changsha)
	require.NoError(t, err)
	assert.Equal(t, "多云", r.Description)
	assert.Equal(t, float64(26), r.Temperature)
	assert.Equal(t, float64(70), r.Humidity)
	assert.Equal(t, "东南风", r.WindDirection)
	assert.Equal(t, "≤3级", r.WindPower)
	assert.Equal(t, float64(2), r.WindSpeed)
	assert.Equal(t, float64(30), *r.TempMax)
	assert.Equal(t, float64(21), *r.TempMin)
	assert.Equal(t, weather.ConditionCloudy, r.Condition)

	_, err = p.Fetch(context.Background(), changsha)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&regeoCalls))
}

func TestAmapEmptyAdcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"1","regeocode":{"addressComponent":{"adcode":[]}}}`))
	}))
	defer srv.Close()

	p := NewAmapProvider(srv.Client(), "key")
	p.baseURL = srv.URL

	_, err := p.Fetch(context.Background(), changsha)
	assert.Error(t, err)
}

func TestOpenMeteoFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ms", r.URL.Query().Get("wind_speed_unit"))
		w.Write([]byte(`{
			"utc_offset_seconds": 28800,
			"current": {"time": "2024-05-01T14:00", "temperature_2m": 22.5, "relative_humidity_2m": 48,
				"apparent_temperature": 21.9, "pressure_msl": 1009.3, "wind_speed_10m": 6.1,
				"wind_direction_10m": 350, "weather_code": 61},
			"daily": {"temperature_2m_max": [25.1], "temperature_2m_min": [17.4],
				"sunrise": ["2024-05-01T05:48"], "sunset": ["2024-05-01T19:01"]}
		}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	r, err := p.Fetch(context.Background(), changsha)
	require.NoError(t, err)
	assert.Equal(t, "小雨", r.Description)
	assert.Equal(t, 22.5, r.Temperature)
	assert.Equal(t, "北风", r.WindDirection)
	assert.Equal(t, "4级", r.WindPower)
	assert.Equal(t, weather.ConditionRain, r.Condition)
	assert.Equal(t, 25.1, *r.TempMax)
	assert.Equal(t, "05:48:00", r.Sunrise)
	assert.Equal(t, time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC), r.ObservedAt)
}

func TestWeatherAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"location": {"localtime_epoch": 1700000000},
			"current": {"temp_c": 18, "feelslike_c": 17, "humidity": 80, "wind_kph": 18, "wind_degree": 270,
				"pressure_mb": 1015, "vis_km": 9, "condition": {"text": "小雨", "icon": "//cdn/rain.png"}},
			"forecast": {"forecastday": [{"day": {"maxtemp_c": 20, "mintemp_c": 14},
				"astro": {"sunrise": "06:10 AM", "sunset": "05:40 PM"}}]}
		}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "key")
	p.baseURL = srv.URL

	r, err := p.Fetch(context.Background(), changsha)
	require.NoError(t, err)
	assert.Equal(t, "小雨", r.Description)
	assert.InDelta(t, 5.0, r.WindSpeed, 1e-9)
	assert.Equal(t, "西风", r.WindDirection)
	assert.Equal(t, weather.ConditionRain, r.Condition)
	assert.Equal(t, float64(14), *r.TempMin)
	assert.Equal(t, "06:10 AM", r.Sunrise)
}

func TestNewFallsBackToMockWithoutKey(t *testing.T) {
	tests := []struct {
		name     string
		keys     Keys
		expected string
	}{
		{"openweather", Keys{}, "mock"},
		{"openweather", Keys{OpenWeather: "k"}, "openweather"},
		{"amap", Keys{}, "mock"},
		{"amap", Keys{Amap: "k"}, "amap"},
		{"weatherapi", Keys{WeatherAPI: "k"}, "weatherapi"},
		{"openmeteo", Keys{}, "openmeteo"},
		{"unknown", Keys{OpenWeather: "k"}, "openweather"},
	}
	for _, tc := range tests {
		p := New(tc.name, http.DefaultClient, tc.keys)
		assert.Equal(t, tc.expected, p.Name(), tc.name)
	}
}

func TestMockProvider(t *testing.T) {
	r, err := NewMockProvider().Fetch(context.Background(), changsha)
	require.NoError(t, err)
	assert.Equal(t, "晴朗", r.Description)
	assert.Equal(t, float64(25), r.Temperature)
}
