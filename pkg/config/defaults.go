package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "medbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultJWTTokenTTL = 24 * time.Hour

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSlotHoldTTL             = 10 * time.Second
	DefaultAvailabilityIncludePast = false
	DefaultDefaultStartOfDay       = "09:00"
	DefaultDefaultEndOfDay         = "17:00"
	DefaultDefaultServiceDuration  = 30

	DefaultReminderLeadWindow   = 24 * time.Hour
	DefaultReminderScanInterval = 5 * time.Minute

	DefaultReservationEventsTopic = "reservation-events"
	DefaultReservationEventsDLQ   = "reservation-events-dlq"
	DefaultNotifierConsumerGroup  = "medbook-notifier"

	DefaultPaginationLimit = 100
)
