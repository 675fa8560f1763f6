package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvEmail    = "EMAIL"
	EnvPassword = "PASSWORD"
	EnvClub     = "CLUB"
	EnvHost     = "HOST"
	EnvPort     = "PORT"

	DefaultHost        = "127.0.0.1"
	DefaultPort uint16 = 8080
)

// Config holds the account credentials and listen address. It is built once
// at startup and only read afterwards.
type Config struct {
	Email    string
	Password string
	Club     string
	Host     string
	Port     uint16
}

// MissingError reports a required setting that is absent or empty.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s is required", e.Key)
}

// InvalidError reports a setting that is present but cannot be parsed.
type InvalidError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s has invalid value %q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("%s has invalid value %q", e.Key, e.Value)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file and environment variables.
func LoadWithFile(envFile string) (*Config, error) {
	// Attempt to load .env file if provided, but don't fail if it doesn't exist.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	port, err := parsePort(os.Getenv(EnvPort))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Email:    os.Getenv(EnvEmail),
		Password: os.Getenv(EnvPassword),
		Club:     os.Getenv(EnvClub),
		Host:     getEnvOrDefault(EnvHost, DefaultHost),
		Port:     port,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required fields are set.
func (c *Config) Validate() error {
	if c.Email == "" {
		return &MissingError{Key: EnvEmail}
	}
	if c.Password == "" {
		return &MissingError{Key: EnvPassword}
	}
	if c.Club == "" {
		return &MissingError{Key: EnvClub}
	}
	if c.Port == 0 {
		return &InvalidError{Key: EnvPort, Value: "0"}
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.FormatUint(uint64(c.Port), 10))
}

// String omits the password so the config can be logged.
func (c *Config) String() string {
	return fmt.Sprintf("email=%s club=%s addr=%s", c.Email, c.Club, c.Addr())
}

// parsePort converts PORT to a uint16, defaulting to 8080 when unset.
func parsePort(s string) (uint16, error) {
	if s == "" {
		return DefaultPort, nil
	}
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, &InvalidError{Key: EnvPort, Value: s, Err: err}
	}
	if p == 0 {
		return 0, &InvalidError{Key: EnvPort, Value: s}
	}
	return uint16(p), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
