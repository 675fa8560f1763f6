package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// UpstreamConfig controls how the booking provider is reached.
type UpstreamConfig struct {
	ProviderDomain string        `toml:"provider_domain"`
	UserAgent      string        `toml:"user_agent"`
	Timeout        time.Duration `toml:"timeout"` // 0 keeps the HTTP client default
}

// CalendarConfig controls the iCalendar output.
type CalendarConfig struct {
	ProductID        string        `toml:"product_id"`
	Timezone         string        `toml:"timezone"`
	AlarmBefore      time.Duration `toml:"alarm_before"`
	AlarmDescription string        `toml:"alarm_description"`
}

// FeatureConfig holds user-facing feature configurations.
// These are non-sensitive settings that customize presentation and the
// upstream endpoint. Credentials never live here.
// Source: TOML configuration file
type FeatureConfig struct {
	Upstream UpstreamConfig `toml:"upstream"`
	Calendar CalendarConfig `toml:"calendar"`
}

// DefaultFeatureConfig returns the settings used when no file is present.
func DefaultFeatureConfig() *FeatureConfig {
	return &FeatureConfig{
		Upstream: UpstreamConfig{
			ProviderDomain: "dewi-online.nl",
			UserAgent:      "dewi-reservations-ical",
		},
		Calendar: CalendarConfig{
			ProductID:        "dewi-reservations",
			Timezone:         "Europe/Amsterdam",
			AlarmBefore:      time.Hour,
			AlarmDescription: "Time to sport!~",
		},
	}
}

// LoadFeatureConfig loads feature configuration from a TOML file. Keys absent
// from the file keep their defaults, and a missing file yields the defaults.
func LoadFeatureConfig(path string) (*FeatureConfig, error) {
	cfg := DefaultFeatureConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultFeatureConfig(), nil
		}
		return nil, fmt.Errorf("failed to load feature config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted sensibly.
func (c *FeatureConfig) Validate() error {
	if c.Upstream.ProviderDomain == "" {
		return fmt.Errorf("upstream.provider_domain is required")
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream.timeout must not be negative")
	}
	if c.Calendar.ProductID == "" {
		return fmt.Errorf("calendar.product_id is required")
	}
	if c.Calendar.AlarmBefore <= 0 {
		return fmt.Errorf("calendar.alarm_before must be positive")
	}
	if _, err := c.Calendar.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the facility-local timezone.
func (c *CalendarConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
