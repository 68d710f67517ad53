package config

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	// Env is the active configuration profile from APP_ENV.
	Env string `mapstructure:"env" validate:"required,oneof=development testing production"`

	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// SecretKey is the application secret from SECRET_KEY. It is carried for
	// parity with the deployment surface; token signing uses Auth.JWTSecret.
	SecretKey string `mapstructure:"secret_key" validate:"required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// CacheConfig contains the list-cache settings.
//
// Type selects the backend. "memory" is an in-process cache: within one
// server process every request shares it, but separate replicas each hold
// their own copy, so cross-replica invalidation is best-effort (an entry in
// another replica lives until its own TTL lapses). "redis" is shared across
// replicas and closes that gap.
type CacheConfig struct {
	Type                  string `mapstructure:"type"                    validate:"required,oneof=memory redis"`
	DefaultTimeoutSeconds int    `mapstructure:"default_timeout_seconds" validate:"required,gt=0"`

	// RedisURL is only consulted when Type is "redis".
	RedisURL string `mapstructure:"redis_url" validate:"required_if=Type redis"`
}
