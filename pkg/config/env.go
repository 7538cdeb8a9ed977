package config

const (
	EnvAPIBaseURL = "API_BASE_URL"
	EnvAPITimeout = "API_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvRequestTimeout  = "REQUEST_TIMEOUT"

	EnvRateLimitRequests  = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow    = "RATE_LIMIT_WINDOW"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvNationality      = "NATIONALITY"
	EnvCurrency         = "CURRENCY"
	EnvCulture          = "CULTURE"
	EnvDefaultAdults    = "DEFAULT_ADULTS"
	EnvMaxChildAges     = "MAX_CHILD_AGES"
	EnvBookingsPageSize = "BOOKINGS_PAGE_SIZE"
	EnvLocationDebounce = "LOCATION_DEBOUNCE"

	EnvRedisAddr        = "REDIS_ADDR"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvLocationCacheTTL = "LOCATION_CACHE_TTL"

	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvKafkaBookingTopic = "KAFKA_BOOKING_TOPIC"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvBreakerMaxFailures = "BREAKER_MAX_FAILURES"
	EnvBreakerTimeout     = "BREAKER_TIMEOUT"
)
