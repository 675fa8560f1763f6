package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFeatureConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFeatureConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFeatureConfig(), cfg)
}

func TestLoadFeatureConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadFeatureConfig("")
	require.NoError(t, err)
	assert.Equal(t, "dewi-online.nl", cfg.Upstream.ProviderDomain)
	assert.Equal(t, "dewi-reservations-ical", cfg.Upstream.UserAgent)
	assert.Equal(t, "dewi-reservations", cfg.Calendar.ProductID)
	assert.Equal(t, "Europe/Amsterdam", cfg.Calendar.Timezone)
	assert.Equal(t, time.Hour, cfg.Calendar.AlarmBefore)
	assert.Equal(t, "Time to sport!~", cfg.Calendar.AlarmDescription)
}

func TestLoadFeatureConfig_ValidTOML(t *testing.T) {
	content := `
[upstream]
provider_domain = "example.test"
timeout = "15s"

[calendar]
alarm_before = "30m"
alarm_description = "Grab your racket"
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := LoadFeatureConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "example.test", cfg.Upstream.ProviderDomain)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Calendar.AlarmBefore)
	assert.Equal(t, "Grab your racket", cfg.Calendar.AlarmDescription)
	// untouched keys keep defaults
	assert.Equal(t, "dewi-reservations-ical", cfg.Upstream.UserAgent)
	assert.Equal(t, "Europe/Amsterdam", cfg.Calendar.Timezone)
}

func TestLoadFeatureConfig_InvalidTOML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("{{invalid"), 0o644))

	_, err := LoadFeatureConfig(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load feature config")
}

func TestLoadFeatureConfig_UnknownTimezone(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("[calendar]\ntimezone = \"Mars/Olympus_Mons\"\n"), 0o644))

	_, err := LoadFeatureConfig(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar.timezone")
}

func TestFeatureConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FeatureConfig)
		wantErr string
	}{
		{"defaults", func(*FeatureConfig) {}, ""},
		{"no provider domain", func(c *FeatureConfig) { c.Upstream.ProviderDomain = "" }, "provider_domain"},
		{"negative timeout", func(c *FeatureConfig) { c.Upstream.Timeout = -time.Second }, "timeout"},
		{"no product id", func(c *FeatureConfig) { c.Calendar.ProductID = "" }, "product_id"},
		{"zero alarm", func(c *FeatureConfig) { c.Calendar.AlarmBefore = 0 }, "alarm_before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFeatureConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalendarConfig_Location(t *testing.T) {
	cc := DefaultFeatureConfig().Calendar
	loc, err := cc.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Amsterdam", loc.String())
}
