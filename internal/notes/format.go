package notes

import (
	"strings"

	"github.com/i474232898/weather-note/internal/location"
	"github.com/i474232898/weather-note/internal/tmpl"
	"github.com/i474232898/weather-note/internal/weather"
)

const partSep = " | "

// FormatWeather renders the short weather summary used by InsertWeather.
func FormatWeather(r weather.Reading) string {
	parts := []string{
		"**天气**: " + r.Description,
		"**温度**: " + num(r.Temperature) + "°C",
		"**湿度**: " + num(r.Humidity) + "%",
	}
	if r.WindDirection != "" {
		parts = append(parts, "**风向**: "+r.WindDirection)
	}
	if r.WindPower != "" {
		parts = append(parts, "**风力**: "+r.WindPower)
	}
	parts = append(parts, "**风速**: "+num(r.WindSpeed)+" m/s")
	return strings.Join(parts, partSep)
}

// FormatLocation renders the short location summary used by InsertLocation.
func FormatLocation(f location.Fix) string {
	parts := []string{"**位置**: " + f.City}
	if f.Region != "" {
		parts = append(parts, "**区域**: "+f.Region)
	}
	if f.District != "" {
		parts = append(parts, "**区县**: "+f.District)
	}
	if f.FormattedAddress != "" {
		parts = append(parts, "**详细地址**: "+f.FormattedAddress)
	}
	if f.Country != "" {
		parts = append(parts, "**国家**: "+f.Country)
	}
	return strings.Join(parts, partSep)
}

// num formats like template output so summaries and templates agree.
func num(n float64) string {
	return tmpl.Number(n).String()
}
