package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret   = "JWT_SECRET"
	EnvJWTTokenTTL = "JWT_TOKEN_TTL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotHoldTTL              = "SLOT_HOLD_TTL"
	EnvAvailabilityIncludePast  = "AVAILABILITY_INCLUDE_PAST"
	EnvDefaultStartOfDay        = "DEFAULT_START_OF_DAY"
	EnvDefaultEndOfDay          = "DEFAULT_END_OF_DAY"
	EnvDefaultServiceDuration   = "DEFAULT_SERVICE_DURATION_MIN"
	EnvReminderLeadWindow       = "REMINDER_LEAD_WINDOW"
	EnvReminderScanInterval     = "REMINDER_SCAN_INTERVAL"
	EnvNotifierFromEmail        = "NOTIFIER_FROM_EMAIL"
	EnvNotifierSendGridAPIKey   = "SENDGRID_API_KEY"
	EnvReservationEventsTopic   = "RESERVATION_EVENTS_TOPIC"
	EnvReservationEventsDLQ     = "RESERVATION_EVENTS_DLQ_TOPIC"
	EnvNotifierConsumerGroup    = "NOTIFIER_CONSUMER_GROUP"
	EnvBookingLinkSigningSecret = "BOOKING_LINK_SECRET"
)
