package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port      string `mapstructure:"port" validate:"required"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gt=0"`

	// RefreshInterval controls how often the scheduler warms the caches.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`

	SettingsPath string `mapstructure:"settings_path" validate:"required"`

	StoreDriver     string        `mapstructure:"store_driver" validate:"oneof=memory sqlite"`
	StorePath       string        `mapstructure:"store_path" validate:"required_if=StoreDriver sqlite"`
	StoreMaxHistory int           `mapstructure:"store_max_history" validate:"gte=0"` // versions per block (0 = unlimited)
	StoreMaxAge     time.Duration `mapstructure:"store_max_age"`                      // memory store only (0 = unlimited)

	GeocoderAPIKey string `mapstructure:"google_geocoder_api_key"`

	// Fixed device position for the gps location provider.
	DeviceLat float64 `mapstructure:"device_lat" validate:"gte=-90,lte=90"`
	DeviceLon float64 `mapstructure:"device_lon" validate:"gte=-180,lte=180"`
}

// HasDevice reports whether a device position was configured.
func (c AppConfig) HasDevice() bool {
	return c.DeviceLat != 0 || c.DeviceLon != 0
}

var defaults = map[string]any{
	"port":                    "8080",
	"log_level":               "info",
	"log_format":              "json",
	"http_timeout":            "10s",
	"refresh_interval":        "15m",
	"settings_path":           "data/settings.yaml",
	"store_driver":            "memory",
	"store_path":              "data/notes.db",
	"store_max_history":       50,
	"store_max_age":           "0s",
	"google_geocoder_api_key": "",
	"device_lat":              0.0,
	"device_lon":              0.0,
}

// New returns a viper instance with defaults and environment lookup set up.
// Keys map to upper-case env vars, e.g. store_driver -> STORE_DRIVER.
func New() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds command-line flags whose names match config keys with
// dashes, e.g. --store-driver.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, known := defaults[key]; !known || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// LoadDotEnv loads .env into the process environment if the file exists.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

var validate = validator.New()

// Load reads configuration from v with sensible defaults.
func Load(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
