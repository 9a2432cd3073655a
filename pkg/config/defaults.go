package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017/hitcounter"
	DefaultMongoDatabaseName = "hitcounter"
	DefaultMongoCollection   = "logs"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "3000"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxRequestSize = 16 * 1024 // 16KB, pings are tiny

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDotEnvFile = ".env"
)

// DefaultCORSAllowedOrigins is used when CORS_ALLOWED_ORIGINS is unset.
var DefaultCORSAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}
