// Package config handles configuration loading from the .env file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 7000
)

// Tracked environment variable names, in the order they are reported.
const (
	KeyAPIKey = "API_KEY"
	KeyPort   = "PORT"
	KeyHost   = "HOST"
	KeyDebug  = "DEBUG"
	KeyEnv    = "ENV"
)

// aliasAPIKey is consulted when API_KEY is unset.
const aliasAPIKey = "TMDB_KEY"

const maskedValue = "*****"

// ErrInvalidPort is returned when PORT is not an integer in 1..65535.
var ErrInvalidPort = errors.New("invalid PORT")

// Var is one tracked variable as observed at startup.
type Var struct {
	Name  string
	Value string
	Set   bool
	// Secret values are masked when reported.
	Secret bool
}

// Config holds the resolved launcher configuration. It is built once by
// Resolve and not modified afterwards.
type Config struct {
	// Host is the bind address.
	Host string

	// Port is the bind port.
	Port int

	// APIKey is the application secret passed through to the app.
	APIKey string

	// Debug is the raw DEBUG value.
	Debug string

	// Env is the deployment environment name.
	Env string

	// Vars lists the tracked variables in reporting order.
	Vars []Var
}

// DebugEnabled reports whether DEBUG holds a truthy value.
func (c *Config) DebugEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(c.Debug)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}

// LookupFunc reads a single environment variable.
type LookupFunc func(key string) (string, bool)

// Resolve reads the tracked variables through lookup (os.LookupEnv when nil).
// Empty values count as unset, so HOST and PORT fall back to their defaults.
func Resolve(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	apiKeyName := KeyAPIKey
	apiKey := get(KeyAPIKey)
	if apiKey == "" {
		if alias := get(aliasAPIKey); alias != "" {
			apiKeyName, apiKey = aliasAPIKey, alias
		}
	}

	cfg := &Config{
		APIKey: apiKey,
		Debug:  get(KeyDebug),
		Env:    get(KeyEnv),
		Vars: []Var{
			{Name: apiKeyName, Value: apiKey, Set: apiKey != "", Secret: true},
			{Name: KeyPort, Value: get(KeyPort), Set: get(KeyPort) != ""},
			{Name: KeyHost, Value: get(KeyHost), Set: get(KeyHost) != ""},
			{Name: KeyDebug, Value: get(KeyDebug), Set: get(KeyDebug) != ""},
			{Name: KeyEnv, Value: get(KeyEnv), Set: get(KeyEnv) != ""},
		},
	}

	cfg.Host = getEnv(get, KeyHost, DefaultHost)

	port, err := parsePort(getEnv(get, KeyPort, strconv.Itoa(DefaultPort)))
	if err != nil {
		return cfg, err
	}
	cfg.Port = port

	return cfg, nil
}

// Report logs each tracked variable, or a warning when it is unset.
func (c *Config) Report(log zerolog.Logger) {
	for _, v := range c.Vars {
		if !v.Set {
			log.Warn().Msgf("%s not set in environment", v.Name)
			continue
		}
		value := v.Value
		if v.Secret {
			value = maskedValue
		}
		log.Info().Msgf("%s = %s", v.Name, value)
	}
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidPort, raw, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w %q: out of range", ErrInvalidPort, raw)
	}
	return port, nil
}

// getEnv retrieves a variable through get or returns a default value.
func getEnv(get func(string) string, key, defaultValue string) string {
	if value := get(key); value != "" {
		return value
	}
	return defaultValue
}
