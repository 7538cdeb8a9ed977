package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"staybook/pkg/logger"
)

type Config struct {
	APIBaseURL string
	APITimeout time.Duration

	Port      string
	LogLevel  string
	LogFormat string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	RateLimitRequests  int
	RateLimitWindow    time.Duration
	CORSAllowedOrigins []string

	Nationality      string
	Currency         string
	Culture          string
	DefaultAdults    int
	MaxChildAges     int
	BookingsPageSize int
	LocationDebounce time.Duration

	RedisAddr        string
	RedisPassword    string
	LocationCacheTTL time.Duration

	KafkaBrokers      []string
	KafkaBookingTopic string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	BreakerMaxFailures int
	BreakerTimeout     time.Duration

	Log *logger.Logger
}

// Load reads an optional .env file, then the environment, and exits when the
// result does not validate.
func Load(serviceName string) *Config {
	envFileErr := godotenv.Load()

	cfg := FromEnv(serviceName)
	if envFileErr != nil && !os.IsNotExist(envFileErr) {
		cfg.Log.Warn("Could not read .env file", "error", envFileErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config from environment variables without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		APIBaseURL: strings.TrimRight(getEnvStr(EnvAPIBaseURL, DefaultAPIBaseURL), "/"),
		APITimeout: getEnvDuration(EnvAPITimeout, DefaultAPITimeout),

		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),

		RateLimitRequests:  getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:    getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		Nationality:      getEnvStr(EnvNationality, DefaultNationality),
		Currency:         getEnvStr(EnvCurrency, DefaultCurrency),
		Culture:          getEnvStr(EnvCulture, DefaultCulture),
		DefaultAdults:    getEnvNum(EnvDefaultAdults, DefaultAdults),
		MaxChildAges:     getEnvNum(EnvMaxChildAges, DefaultMaxChildAges),
		BookingsPageSize: getEnvNum(EnvBookingsPageSize, DefaultBookingsPageSize),
		LocationDebounce: getEnvDuration(EnvLocationDebounce, DefaultLocationDebounce),

		RedisAddr:        getEnvStr(EnvRedisAddr, ""),
		RedisPassword:    getEnvStr(EnvRedisPassword, ""),
		LocationCacheTTL: getEnvDuration(EnvLocationCacheTTL, DefaultLocationCacheTTL),

		KafkaBrokers:      getEnvList(EnvKafkaBrokers, nil),
		KafkaBookingTopic: getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),

		MongoURI:          getEnvStr(EnvMongoURI, ""),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		BreakerMaxFailures: getEnvNum(EnvBreakerMaxFailures, DefaultBreakerMaxFailures),
		BreakerTimeout:     getEnvDuration(EnvBreakerTimeout, DefaultBreakerTimeout),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})
	return cfg
}

func (cfg *Config) Validate() error {
	var errors []string

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("APIBaseURL must be an absolute URL, got: %s", cfg.APIBaseURL))
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"APITimeout", cfg.APITimeout},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"RequestTimeout", cfg.RequestTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"LocationDebounce", cfg.LocationDebounce},
		{"LocationCacheTTL", cfg.LocationCacheTTL},
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"BreakerTimeout", cfg.BreakerTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.BreakerMaxFailures <= 0 {
		errors = append(errors, fmt.Sprintf("BreakerMaxFailures must be positive, got: %d", cfg.BreakerMaxFailures))
	}
	if cfg.DefaultAdults < 1 || cfg.DefaultAdults > MaxAdults {
		errors = append(errors, fmt.Sprintf("DefaultAdults must be between 1 and %d, got: %d", MaxAdults, cfg.DefaultAdults))
	}
	if cfg.MaxChildAges < 0 {
		errors = append(errors, fmt.Sprintf("MaxChildAges cannot be negative, got: %d", cfg.MaxChildAges))
	}
	if cfg.BookingsPageSize < 1 || cfg.BookingsPageSize > MaxBookingsPageSize {
		errors = append(errors, fmt.Sprintf("BookingsPageSize must be between 1 and %d, got: %d", MaxBookingsPageSize, cfg.BookingsPageSize))
	}
	if cfg.Nationality == "" || cfg.Currency == "" || cfg.Culture == "" {
		errors = append(errors, "Nationality, Currency and Culture cannot be empty")
	}

	if cfg.MongoURI != "" && !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoURI != "" && cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty when MongoURI is set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBookingTopic == "" {
		errors = append(errors, "KafkaBookingTopic cannot be empty when KafkaBrokers is set")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"api_base_url", cfg.APIBaseURL,
		"api_timeout", cfg.APITimeout,
		"port", cfg.Port,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"request_timeout", cfg.RequestTimeout,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"nationality", cfg.Nationality,
		"currency", cfg.Currency,
		"culture", cfg.Culture,
		"default_adults", cfg.DefaultAdults,
		"max_child_ages", cfg.MaxChildAges,
		"bookings_page_size", cfg.BookingsPageSize,
		"location_debounce", cfg.LocationDebounce,
		"redis_enabled", cfg.RedisAddr != "",
		"location_cache_ttl", cfg.LocationCacheTTL,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"breaker_max_failures", cfg.BreakerMaxFailures,
		"breaker_timeout", cfg.BreakerTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// NormalizePageSize clamps a requested bookings page size.
func (cfg *Config) NormalizePageSize(size int) int {
	if size <= 0 {
		return cfg.BookingsPageSize
	}
	return min(size, MaxBookingsPageSize)
}
