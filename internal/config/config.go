// Package config loads service configuration from an optional YAML file
// with environment variable overrides. Environment always wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"logiroute/internal/routing"
)

// Config is the process-wide immutable configuration, resolved once at
// startup and passed by reference into the request handlers.
type Config struct {
	Port string `yaml:"port"`

	DatabaseURL string `yaml:"databaseUrl"`
	RedisURL    string `yaml:"redisUrl"`

	Route struct {
		MaxWaypoints    int     `yaml:"maxWaypoints"`
		MaxVehicles     int     `yaml:"maxVehicles"`
		TimeoutSeconds  int     `yaml:"timeoutSeconds"`
		AverageSpeedKmh float64 `yaml:"averageSpeedKmh"`
		DisableSolver   bool    `yaml:"disableSolver"`
	} `yaml:"route"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`
}

// Load reads the YAML file at path (skipped when path is empty or missing)
// and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// Default returns the built-in configuration with no file or environment
// applied. Useful for tests and embedded use.
func Default() Config { return defaults() }

func defaults() Config {
	var cfg Config
	cfg.Port = "8080"
	rc := routing.DefaultConfig()
	cfg.Route.MaxWaypoints = rc.MaxWaypoints
	cfg.Route.MaxVehicles = rc.MaxVehicles
	cfg.Route.TimeoutSeconds = int(rc.SolverTimeout / time.Second)
	cfg.Route.AverageSpeedKmh = rc.AverageSpeedKmh
	cfg.RateLimit.RPS = 50
	cfg.RateLimit.Burst = 100
	return cfg
}

func applyEnv(cfg *Config) {
	setStr(&cfg.Port, "PORT")
	setStr(&cfg.DatabaseURL, "DATABASE_URL")
	setStr(&cfg.RedisURL, "REDIS_URL")
	setInt(&cfg.Route.MaxWaypoints, "ROUTE_MAX_WAYPOINTS")
	setInt(&cfg.Route.MaxVehicles, "ROUTE_MAX_VEHICLES")
	setInt(&cfg.Route.TimeoutSeconds, "ROUTE_OPTIMIZATION_TIMEOUT")
	setFloat(&cfg.Route.AverageSpeedKmh, "ROUTE_AVERAGE_SPEED_KMH")
	setBool(&cfg.Route.DisableSolver, "ROUTE_DISABLE_SOLVER")
	setFloat(&cfg.RateLimit.RPS, "RATE_RPS")
	setInt(&cfg.RateLimit.Burst, "RATE_BURST")
}

// RoutingConfig maps the route section onto the optimizer's configuration.
func (c Config) RoutingConfig() routing.Config {
	return routing.Config{
		MaxWaypoints:    c.Route.MaxWaypoints,
		MaxVehicles:     c.Route.MaxVehicles,
		SolverTimeout:   time.Duration(c.Route.TimeoutSeconds) * time.Second,
		AverageSpeedKmh: c.Route.AverageSpeedKmh,
		DisableSolver:   c.Route.DisableSolver,
	}
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
