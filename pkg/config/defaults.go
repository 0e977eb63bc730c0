package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "apnastay"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"

	DefaultPort    = "8080"
	DefaultSiteURL = "http://localhost:8080"

	DefaultPaymentBaseURL  = "https://api.razorpay.com"
	DefaultPaymentCurrency = "INR"

	DefaultGeocodeBaseURL = "https://api.mapbox.com"

	DefaultEmailBaseURL = "https://api.brevo.com"
	DefaultEmailSender  = "bookings@apnastay.com"

	// AES-256 key, base64. Overridden in any real deployment.
	DefaultCheckoutSealerKey = "Qm9va2luZ0RyYWZ0U2VhbGVyS2V5MzJieXRlcyEh"

	DefaultDraftTTL       = 30 * time.Minute
	DefaultCancelTokenTTL = 48 * time.Hour
	DefaultLockTTL        = 10 * time.Second

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 50
)
