package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindDirection(t *testing.T) {
	tests := map[float64]string{
		0:   "北风",
		22:  "北风",
		23:  "东北风",
		90:  "东风",
		135: "东南风",
		180: "南风",
		225: "西南风",
		270: "西风",
		315: "西北风",
		340: "北风",
		360: "北风",
		-90: "西风",
	}
	for deg, expected := range tests {
		assert.Equal(t, expected, WindDirection(deg), "deg %v", deg)
	}
}

func TestWindPower(t *testing.T) {
	tests := []struct {
		speed    float64
		expected string
	}{
		{0, "无风"},
		{0.29, "无风"},
		{0.3, "1级"},
		{3.5, "3级"},
		{10.8, "6级"},
		{32.6, "11级"},
		{40, "12级"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, WindPower(tc.speed), "speed %v", tc.speed)
	}
}

func TestParseWindPowerLevel(t *testing.T) {
	assert.Equal(t, 2.0, ParseWindPowerLevel("≤3"))
	assert.Equal(t, 5.5, ParseWindPowerLevel("5-6"))
	assert.Equal(t, 7.0, ParseWindPowerLevel("4"))
	assert.Equal(t, 7.0, ParseWindPowerLevel("4级"))
	assert.Equal(t, 24.0, ParseWindPowerLevel("12"))
	assert.Equal(t, 3.0, ParseWindPowerLevel("unknown"))
}

func TestTranslateDescription(t *testing.T) {
	assert.Equal(t, "晴朗", TranslateDescription("clear sky"))
	assert.Equal(t, "小雨", TranslateDescription("Light Rain"))
	assert.Equal(t, "sandstorm", TranslateDescription("sandstorm"))
}
