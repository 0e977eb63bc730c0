package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvSiteURL  = "SITE_URL"

	EnvPaymentBaseURL   = "PAYMENT_BASE_URL"
	EnvPaymentKeyID     = "PAYMENT_KEY_ID"
	EnvPaymentKeySecret = "PAYMENT_KEY_SECRET"
	EnvPaymentCurrency  = "PAYMENT_CURRENCY"

	EnvGeocodeBaseURL = "GEOCODE_BASE_URL"
	EnvGeocodeToken   = "GEOCODE_TOKEN"

	EnvEmailBaseURL = "EMAIL_BASE_URL"
	EnvEmailAPIKey  = "EMAIL_API_KEY"
	EnvEmailSender  = "EMAIL_SENDER"

	EnvCheckoutSealerKey = "CHECKOUT_SEALER_KEY"

	EnvDraftTTL       = "BOOKING_DRAFT_TTL"
	EnvCancelTokenTTL = "CANCEL_TOKEN_TTL"
	EnvLockTTL        = "BOOKING_LOCK_TTL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
