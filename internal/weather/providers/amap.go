package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-note/internal/cache"
	"github.com/i474232898/weather-note/internal/common"
	"github.com/i474232898/weather-note/internal/weather"
)

const adcodeCacheTTL = time.Hour

// AmapProvider implements the weather.Provider interface for AMap (高德).
// Coordinates are first reverse geocoded to an adcode, which is cached.
type AmapProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	adcodes *cache.TTL[string]
}

func NewAmapProvider(client *http.Client, apiKey string) *AmapProvider {
	return &AmapProvider{
		name:    "amap",
		apiKey:  apiKey,
		baseURL: "https://restapi.amap.com/v3",
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewBreaker("amap"),
		adcodes: cache.New[string](adcodeCacheTTL),
	}
}

func (p *AmapProvider) Name() string {
	return p.name
}

// amapString decodes AMap fields that come back as "" or [] when empty.
type amapString string

func (s *amapString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = amapString(v)
	return nil
}

func (p *AmapProvider) Fetch(ctx context.Context, at weather.Coordinates) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("amap api key is not configured")
	}

	adcode, err := p.adcode(ctx, at)
	if err != nil {
		return weather.Reading{}, err
	}

	live, err := p.live(ctx, adcode)
	if err != nil {
		return weather.Reading{}, err
	}

	r := weather.Reading{
		Description:   string(live.Weather),
		Temperature:   atof(string(live.Temperature)),
		Humidity:      atof(string(live.Humidity)),
		WindSpeed:     weather.ParseWindPowerLevel(string(live.WindPower)),
		WindDirection: windLabel(string(live.WindDirection)),
		WindPower:     string(live.WindPower) + "级",
		Condition:     mapWeatherAPICondition(string(live.Weather)),
		Provider:      p.name,
		ObservedAt:    time.Now().UTC(),
	}

	// The forecast only adds the day's range; a failure here is not fatal.
	if cast, err := p.today(ctx, adcode); err == nil {
		r.TempMax = weather.Float(atof(string(cast.DayTemp)))
		r.TempMin = weather.Float(atof(string(cast.NightTemp)))
	}
	return r, nil
}

func (p *AmapProvider) adcode(ctx context.Context, at weather.Coordinates) (string, error) {
	key := at.Key()
	if code, ok := p.adcodes.Get(key); ok {
		return code, nil
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("location", fmt.Sprintf("%f,%f", at.Lon, at.Lat))
	values.Set("extensions", "base")

	var payload struct {
		Status    string `json:"status"`
		Regeocode *struct {
			AddressComponent struct {
				Adcode amapString `json:"adcode"`
			} `json:"addressComponent"`
		} `json:"regeocode"`
	}
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, p.baseURL+"/geocode/regeo?"+values.Encode(), &payload); err != nil {
		return "", err
	}
	if payload.Status != "1" || payload.Regeocode == nil || payload.Regeocode.AddressComponent.Adcode == "" {
		return "", fmt.Errorf("amap reverse geocoding failed for %s", key)
	}

	code := string(payload.Regeocode.AddressComponent.Adcode)
	p.adcodes.Set(key, code)
	return code, nil
}

type amapLive struct {
	Weather       amapString `json:"weather"`
	Temperature   amapString `json:"temperature"`
	WindDirection amapString `json:"winddirection"`
	WindPower     amapString `json:"windpower"`
	Humidity      amapString `json:"humidity"`
}

func (p *AmapProvider) live(ctx context.Context, adcode string) (amapLive, error) {
	var payload struct {
		Status string     `json:"status"`
		Lives  []amapLive `json:"lives"`
	}
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, p.weatherURL(adcode, "base"), &payload); err != nil {
		return amapLive{}, err
	}
	if payload.Status != "1" || len(payload.Lives) == 0 {
		return amapLive{}, fmt.Errorf("amap live weather unavailable for %s", adcode)
	}
	return payload.Lives[0], nil
}

type amapCast struct {
	DayTemp   amapString `json:"daytemp"`
	NightTemp amapString `json:"nighttemp"`
}

func (p *AmapProvider) today(ctx context.Context, adcode string) (amapCast, error) {
	var payload struct {
		Status    string `json:"status"`
		Forecasts []struct {
			Casts []amapCast `json:"casts"`
		} `json:"forecasts"`
	}
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, p.weatherURL(adcode, "all"), &payload); err != nil {
		return amapCast{}, err
	}
	if payload.Status != "1" || len(payload.Forecasts) == 0 || len(payload.Forecasts[0].Casts) == 0 {
		return amapCast{}, fmt.Errorf("amap forecast unavailable for %s", adcode)
	}
	return payload.Forecasts[0].Casts[0], nil
}

func (p *AmapProvider) weatherURL(adcode, extensions string) string {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("city", adcode)
	values.Set("extensions", extensions)
	return p.baseURL + "/weather/weatherInfo?" + values.Encode()
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// windLabel turns AMap's "东南" into "东南风"; "无风向" and "旋转不定" pass through.
func windLabel(dir string) string {
	if dir == "" || strings.HasSuffix(dir, "风") || strings.Contains(dir, "风向") || strings.Contains(dir, "不定") {
		return dir
	}
	return dir + "风"
}
