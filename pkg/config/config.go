package config

import (
	"fmt"
	"medbook/pkg/client"
	"medbook/pkg/logger"
	"os"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string

	JWTSecret   string
	JWTTokenTTL time.Duration

	BookingLinkSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SlotHoldTTL             time.Duration
	AvailabilityIncludePast bool
	DefaultStartOfDay       string
	DefaultEndOfDay         string
	DefaultServiceDuration  int

	ReminderLeadWindow   time.Duration
	ReminderScanInterval time.Duration

	ReservationEventsTopic string
	ReservationEventsDLQ   string
	NotifierConsumerGroup  string
	NotifierFromEmail      string
	SendGridAPIKey         string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret:   getEnvStr(EnvJWTSecret, ""),
		JWTTokenTTL: getEnvDuration(EnvJWTTokenTTL, DefaultJWTTokenTTL),

		BookingLinkSecret: getEnvStr(EnvBookingLinkSigningSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotHoldTTL:             getEnvDuration(EnvSlotHoldTTL, DefaultSlotHoldTTL),
		AvailabilityIncludePast: getEnvBool(EnvAvailabilityIncludePast, DefaultAvailabilityIncludePast),
		DefaultStartOfDay:       getEnvStr(EnvDefaultStartOfDay, DefaultDefaultStartOfDay),
		DefaultEndOfDay:         getEnvStr(EnvDefaultEndOfDay, DefaultDefaultEndOfDay),
		DefaultServiceDuration:  getEnvNum(EnvDefaultServiceDuration, DefaultDefaultServiceDuration),

		ReminderLeadWindow:   getEnvDuration(EnvReminderLeadWindow, DefaultReminderLeadWindow),
		ReminderScanInterval: getEnvDuration(EnvReminderScanInterval, DefaultReminderScanInterval),

		ReservationEventsTopic: getEnvStr(EnvReservationEventsTopic, DefaultReservationEventsTopic),
		ReservationEventsDLQ:   getEnvStr(EnvReservationEventsDLQ, DefaultReservationEventsDLQ),
		NotifierConsumerGroup:  getEnvStr(EnvNotifierConsumerGroup, DefaultNotifierConsumerGroup),
		NotifierFromEmail:      getEnvStr(EnvNotifierFromEmail, ""),
		SendGridAPIKey:         getEnvStr(EnvNotifierSendGridAPIKey, ""),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	timeRegex := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	if !timeRegex.MatchString(cfg.DefaultStartOfDay) {
		errs = append(errs, fmt.Sprintf("DefaultStartOfDay must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultStartOfDay))
	}
	if !timeRegex.MatchString(cfg.DefaultEndOfDay) {
		errs = append(errs, fmt.Sprintf("DefaultEndOfDay must be in HH:MM format (00:00-23:59), got: %s", cfg.DefaultEndOfDay))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.SlotHoldTTL <= 0 {
		errs = append(errs, fmt.Sprintf("SlotHoldTTL must be positive, got: %s", cfg.SlotHoldTTL))
	}
	if cfg.DefaultServiceDuration <= 0 {
		errs = append(errs, fmt.Sprintf("DefaultServiceDuration must be positive, got: %d", cfg.DefaultServiceDuration))
	}
	if cfg.ReminderLeadWindow <= 0 {
		errs = append(errs, fmt.Sprintf("ReminderLeadWindow must be positive, got: %s", cfg.ReminderLeadWindow))
	}
	if cfg.ReminderScanInterval <= 0 {
		errs = append(errs, fmt.Sprintf("ReminderScanInterval must be positive, got: %s", cfg.ReminderScanInterval))
	}
	if cfg.JWTTokenTTL <= 0 {
		errs = append(errs, fmt.Sprintf("JWTTokenTTL must be positive, got: %s", cfg.JWTTokenTTL))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"jwt_token_ttl", cfg.JWTTokenTTL,
		"booking_link_secret_set", cfg.BookingLinkSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"slot_hold_ttl", cfg.SlotHoldTTL,
		"availability_include_past", cfg.AvailabilityIncludePast,
		"default_start_of_day", cfg.DefaultStartOfDay,
		"default_end_of_day", cfg.DefaultEndOfDay,
		"default_service_duration_min", cfg.DefaultServiceDuration,
		"reminder_lead_window", cfg.ReminderLeadWindow,
		"reminder_scan_interval", cfg.ReminderScanInterval,
		"reservation_events_topic", cfg.ReservationEventsTopic,
		"reservation_events_dlq", cfg.ReservationEventsDLQ,
		"notifier_consumer_group", cfg.NotifierConsumerGroup,
		"notifier_from_email_set", cfg.NotifierFromEmail != "",
		"sendgrid_api_key_set", cfg.SendGridAPIKey != "",
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

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
