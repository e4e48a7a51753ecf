package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int

	// Upstream providers. Each is enabled by its credentials.
	ProviderTimeout    time.Duration
	GoogleMapsAPIKey   string
	EstatedAPIKey      string
	SchoolDiggerAppID  string
	SchoolDiggerAppKey string
	SchoolDiggerState  string
	AttomAPIKey        string
	CompsRadiusMiles   float64
	CompsLimit         int

	// Geocode and provider caching.
	GeocodeCacheSize int
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration

	// Estimate event stream. Disabled when KafkaBrokers is empty.
	KafkaBrokers       []string
	KafkaEstimateTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}
	rateLimit, err := parsePositiveInt("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	compsLimit, err := parsePositiveInt("COMPS_LIMIT", 12)
	if err != nil {
		return nil, err
	}
	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}
	radius, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("COMPS_RADIUS_MILES", "1"), 64)
	if err != nil || radius <= 0 {
		return nil, errors.New("invalid COMPS_RADIUS_MILES")
	}

	cfg := &Config{
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		RateLimitPerMinute: rateLimit,

		ProviderTimeout:    providerTimeout,
		GoogleMapsAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		EstatedAPIKey:      os.Getenv("ESTATED_API_KEY"),
		SchoolDiggerAppID:  os.Getenv("SCHOOLDIGGER_APP_ID"),
		SchoolDiggerAppKey: os.Getenv("SCHOOLDIGGER_APP_KEY"),
		SchoolDiggerState:  sharedcfg.EnvOrDefault("SCHOOLDIGGER_STATE", "WA"),
		AttomAPIKey:        os.Getenv("ATTOM_API_KEY"),
		CompsRadiusMiles:   radius,
		CompsLimit:         compsLimit,

		GeocodeCacheSize: parseCacheSize(),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		CacheTTL:         cacheTTL,

		KafkaBrokers:       sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaEstimateTopic: sharedcfg.EnvOrDefault("KAFKA_ESTIMATE_TOPIC", "home-estimates"),
	}

	if (cfg.SchoolDiggerAppID == "") != (cfg.SchoolDiggerAppKey == "") {
		return nil, errors.New("SCHOOLDIGGER_APP_ID and SCHOOLDIGGER_APP_KEY must be set together")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaEstimateTopic == "" {
		return nil, errors.New("KAFKA_ESTIMATE_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// GeocodingEnabled reports whether a geocoder is configured.
func (c *Config) GeocodingEnabled() bool { return c.GoogleMapsAPIKey != "" }

// SchoolRatingsEnabled reports whether SchoolDigger credentials are configured.
func (c *Config) SchoolRatingsEnabled() bool { return c.SchoolDiggerAppID != "" }

// RedisEnabled reports whether the shared provider cache is configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// EventsEnabled reports whether estimate events should be published.
func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
