package providers

import (
	"context"
	"time"

	"github.com/i474232898/weather-note/internal/weather"
)

// MockProvider returns a fixed reading. It stands in for a real provider
// when no API key is configured.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) Fetch(ctx context.Context, at weather.Coordinates) (weather.Reading, error) {
	if err := ctx.Err(); err != nil {
		return weather.Reading{}, err
	}
	return weather.Reading{
		Description:   "晴朗",
		Temperature:   25,
		Humidity:      60,
		WindSpeed:     3.5,
		Pressure:      1013,
		Visibility:    10,
		Icon:          "01d",
		FeelsLike:     weather.Float(26),
		TempMin:       weather.Float(20),
		TempMax:       weather.Float(28),
		WindDirection: "东南风",
		WindPower:     "3级",
		Condition:     weather.ConditionClear,
		Provider:      "mock",
		ObservedAt:    time.Now().UTC(),
	}, nil
}
