package weather

import (
	"math"
	"strconv"
	"strings"
)

var windDirections = [...]string{"北风", "东北风", "东风", "东南风", "南风", "西南风", "西风", "西北风"}

// WindDirection names the compass direction a wind blows from.
func WindDirection(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(deg/45)) % len(windDirections)
	return windDirections[idx]
}

// beaufortLimits are the upper wind speed bounds (m/s) of levels 0..11.
var beaufortLimits = [...]float64{0.3, 1.6, 3.4, 5.5, 8.0, 10.8, 13.9, 17.2, 20.8, 24.5, 28.5, 32.7}

// WindPower labels a wind speed in m/s with its Beaufort level.
func WindPower(speed float64) string {
	for level, limit := range beaufortLimits {
		if speed < limit {
			if level == 0 {
				return "无风"
			}
			return strconv.Itoa(level) + "级"
		}
	}
	return "12级"
}

var levelSpeeds = map[int]float64{0: 0, 1: 1.5, 2: 3, 3: 5, 4: 7, 5: 9, 6: 12, 7: 15, 8: 19, 9: 23}

// ParseWindPowerLevel converts an AMap wind power label such as "≤3",
// "4" or "5-6" into an approximate speed in m/s.
func ParseWindPowerLevel(power string) float64 {
	power = strings.TrimSpace(strings.TrimSuffix(power, "级"))
	if strings.Contains(power, "≤") {
		return 2
	}
	if lo, hi, ok := strings.Cut(power, "-"); ok {
		low, err1 := strconv.ParseFloat(lo, 64)
		high, err2 := strconv.ParseFloat(hi, 64)
		if err1 == nil && err2 == nil {
			return (low + high) / 2
		}
		return 3
	}
	level, err := strconv.Atoi(power)
	if err != nil {
		return 3
	}
	if s, ok := levelSpeeds[level]; ok {
		return s
	}
	return float64(level) * 2
}

var descriptions = map[string]string{
	"clear sky":        "晴朗",
	"few clouds":       "少云",
	"scattered clouds": "多云",
	"broken clouds":    "阴天",
	"overcast clouds":  "阴",
	"shower rain":      "阵雨",
	"rain":             "雨",
	"light rain":       "小雨",
	"moderate rain":    "中雨",
	"heavy rain":       "大雨",
	"thunderstorm":     "雷雨",
	"snow":             "雪",
	"light snow":       "小雪",
	"heavy snow":       "大雪",
	"mist":             "雾",
}

// TranslateDescription maps common English descriptions to Chinese and
// returns anything else unchanged.
func TranslateDescription(desc string) string {
	if zh, ok := descriptions[strings.ToLower(strings.TrimSpace(desc))]; ok {
		return zh
	}
	return desc
}
