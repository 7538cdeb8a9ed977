package config

import "time"

const (
	DefaultAPIBaseURL = "http://localhost:4000"
	DefaultAPITimeout = 20 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 30 * time.Second

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultNationality      = "IN"
	DefaultCurrency         = "INR"
	DefaultCulture          = "en-US"
	DefaultAdults           = 2
	DefaultMaxChildAges     = 3
	DefaultBookingsPageSize = 20
	DefaultLocationDebounce = 300 * time.Millisecond

	DefaultLocationCacheTTL = 10 * time.Minute

	DefaultKafkaBookingTopic = "booking.confirmed"

	DefaultMongoDatabaseName = "staybook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultBreakerMaxFailures = 3
	DefaultBreakerTimeout     = 10 * time.Second

	MaxAdults           = 5
	MaxBookingsPageSize = 100
)

var DefaultCORSAllowedOrigins = []string{"http://localhost:5173"}
