package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the trip planner service.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Optional Postgres store for planned trips. Empty disables persistence.
	DatabaseURL string `env:"DATABASE_URL"`

	// Local SQLite file holding the geocode cache, and the route cache
	// unless REDIS_ADDR points at a shared one.
	CachePath     string        `env:"CACHE_PATH" envDefault:"data/cache.db"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RouteCacheTTL time.Duration `env:"ROUTE_CACHE_TTL" envDefault:"24h"`

	OSRMBaseURL    string `env:"OSRM_BASE_URL" envDefault:"https://router.project-osrm.org"`
	WeatherBaseURL string `env:"WEATHER_BASE_URL" envDefault:"https://api.open-meteo.com"`
	WeatherEnabled bool   `env:"WEATHER_ENABLED" envDefault:"true"`

	GeocoderBaseURL   string `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string `env:"GEOCODER_USER_AGENT" envDefault:"trip-planner-service/1.0"`
	GeocoderEnabled   bool   `env:"GEOCODER_ENABLED" envDefault:"true"`

	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"trips"`
}

// Load reads an optional .env file and then parses the environment.
// Variables already set in the process take precedence over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load config: read env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("load config: parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.CachePath == "" {
		return errors.New("CACHE_PATH must not be empty")
	}
	if c.RouteCacheTTL < 0 {
		return errors.New("ROUTE_CACHE_TTL must not be negative")
	}
	return nil
}
