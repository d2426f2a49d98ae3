// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"takeoff/logging"
	"takeoff/services"
)

// Environment variables understood by the service.
const (
	EnvLogLevel       = "TAKEOFF_LOG_LEVEL"
	EnvLogFormat      = "TAKEOFF_LOG_FORMAT"
	EnvTypeCodes      = "TAKEOFF_TYPE_CODES"
	EnvWallNetArea    = "TAKEOFF_WALL_NET_AREA"
	EnvWallDeriveArea = "TAKEOFF_WALL_DERIVE_AREA"
	EnvMaxUploadMB    = "TAKEOFF_MAX_UPLOAD_MB"
)

type Config struct {
	values map[string]string
}

// Load reads the known variables from the process environment.
func Load() (*Config, error) {
	cfg := &Config{
		values: make(map[string]string),
	}
	cfg.loadFromEnv()
	return cfg, nil
}

// FromMap builds a config from explicit values, for tests and the CLI.
func FromMap(values map[string]string) *Config {
	cfg := &Config{values: make(map[string]string, len(values))}
	for k, v := range values {
		cfg.values[k] = v
	}
	return cfg
}

func (c *Config) loadFromEnv() {
	envVars := []string{
		EnvLogLevel,
		EnvLogFormat,
		EnvTypeCodes,
		EnvWallNetArea,
		EnvWallDeriveArea,
		EnvMaxUploadMB,
	}

	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			c.values[envVar] = value
		}
	}
}

func (c *Config) GetString(key, defaultValue string) string {
	if value, exists := c.values[key]; exists {
		return value
	}
	return defaultValue
}

func (c *Config) GetBool(key string, defaultValue bool) bool {
	if value, exists := c.values[key]; exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (c *Config) GetInt(key string, defaultValue int) int {
	if value, exists := c.values[key]; exists {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  c.GetString(EnvLogLevel, "info"),
		Format: c.GetString(EnvLogFormat, "json"),
		Fields: map[string]string{"service": "takeoff"},
	}
}

// WallOptions returns the wall path settings.
func (c *Config) WallOptions() services.WallOptions {
	def := services.DefaultWallOptions()
	return services.WallOptions{
		UseNetArea:        c.GetBool(EnvWallNetArea, def.UseNetArea),
		DeriveMissingArea: c.GetBool(EnvWallDeriveArea, def.DeriveMissingArea),
	}
}

// MaxUploadBytes bounds model uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.GetInt(EnvMaxUploadMB, 50)) << 20
}

// TypeCodeOverrides reads the optional YAML override file. No file
// configured means no overrides.
func (c *Config) TypeCodeOverrides() (map[int64]string, error) {
	path := c.GetString(EnvTypeCodes, "")
	if path == "" {
		return nil, nil
	}
	overrides, err := services.LoadTypeCodesFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", EnvTypeCodes, err)
	}
	return overrides, nil
}

// TypeResolver builds the resolver from the defaults plus the optional
// YAML override file.
func (c *Config) TypeResolver() (*services.TypeResolver, error) {
	overrides, err := c.TypeCodeOverrides()
	if err != nil {
		return nil, err
	}
	return services.NewTypeResolver(overrides), nil
}
