package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Application holds all the application-wide dependencies.
type Application struct {
	Config         Config
	Logger         zerolog.Logger
	DB             *pgxpool.Pool
	Redis          *redis.Client
	TracerProvider *trace.TracerProvider
	Version        string
}

// Config holds all the configuration variables for the application.
type Config struct {
	Port                 int      `mapstructure:"PORT"`
	App_Env              string   `mapstructure:"APP_ENV"`
	App_Secret           string   `mapstructure:"APP_SECRET"`
	CORS_Allowed_Origins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DbHost               string   `mapstructure:"DB_HOST"`
	DbPort               int      `mapstructure:"DB_PORT"`
	DbUser               string   `mapstructure:"DB_USER"`
	DbPassword           string   `mapstructure:"DB_PASSWORD"`
	DbName               string   `mapstructure:"DB_NAME"`
	DbSslMode            string   `mapstructure:"DB_SSL_MODE"`
	RedisHost            string   `mapstructure:"REDIS_HOST"`
	RedisPort            int      `mapstructure:"REDIS_PORT"`
	RedisPassword        string   `mapstructure:"REDIS_PASSWORD"`
	RateLimit            int      `mapstructure:"RATE_LIMIT"`
	LogLevel             string   `mapstructure:"LOG_LEVEL"`
	RequestTimeout       int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	JWTExpirationHours   int      `mapstructure:"JWT_EXPIRATION_HOURS"`
	RefreshTokenTTLHours int      `mapstructure:"REFRESH_TOKEN_TTL_HOURS"`
	DefaultAdminUsername string   `mapstructure:"DEFAULT_ADMIN_USERNAME"`
	DefaultAdminPassword string   `mapstructure:"DEFAULT_ADMIN_PASSWORD"`
	OTelExporterEndpoint string   `mapstructure:"OTEL_EXPORTER_ENDPOINT"`

	// Google Sign-In
	GoogleClientIDs []string `mapstructure:"GOOGLE_CLIENT_IDS"`
	GoogleJWKSURL   string   `mapstructure:"GOOGLE_JWKS_URL"`

	// Google Play Billing
	PlayPackageName     string   `mapstructure:"PLAY_PACKAGE_NAME"`
	PlayProductIDs      []string `mapstructure:"PLAY_PRODUCT_IDS"`
	PlayCredentialsFile string   `mapstructure:"PLAY_CREDENTIALS_FILE"`
	PlayWebhookToken    string   `mapstructure:"PLAY_WEBHOOK_TOKEN"`
	SubscriptionSweep   string   `mapstructure:"SUBSCRIPTION_SWEEP_CRON"`

	// Cloud Storage
	GCSBucket             string `mapstructure:"GCS_BUCKET"`
	GCSCredentialsFile    string `mapstructure:"GCS_CREDENTIALS_FILE"`
	MediaPublicBaseURL    string `mapstructure:"MEDIA_PUBLIC_BASE_URL"`
	MediaUploadURLMinutes int    `mapstructure:"MEDIA_UPLOAD_URL_TTL_MINUTES"`
	MediaMaxUploadBytes   int64  `mapstructure:"MEDIA_MAX_UPLOAD_BYTES"`

	// Plan limits
	NearbyFreeDailyLimit    int     `mapstructure:"NEARBY_FREE_DAILY_LIMIT"`
	NearbyPremiumDailyLimit int     `mapstructure:"NEARBY_PREMIUM_DAILY_LIMIT"`
	NearbyMaxRadiusKm       float64 `mapstructure:"NEARBY_MAX_RADIUS_KM"`
	GalleryFreeLimit        int     `mapstructure:"GALLERY_FREE_LIMIT"`
	GalleryPremiumLimit     int     `mapstructure:"GALLERY_PREMIUM_LIMIT"`
}

type ContextKey string

const (
	UserIDKey    = ContextKey("userID")
	UserRoleKey  = ContextKey("userRole")
	RequestIDKey = ContextKey("request_id")
)

// Load reads configuration from secrets, environment variables, or defaults.
func Load() (config Config, err error) {
	// 1. Determine Environment First
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	viper.Set("APP_ENV", env)

	// 2. Set Defaults based on Environment
	if env == "production" {
		viper.SetDefault("PORT", 8080)
		viper.SetDefault("RATE_LIMIT", 1000)
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
		viper.SetDefault("JWT_EXPIRATION_HOURS", 1)
		viper.SetDefault("REFRESH_TOKEN_TTL_HOURS", 720)
	} else {
		viper.SetDefault("PORT", 8080)
		viper.SetDefault("RATE_LIMIT", 100)
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 60)
		viper.SetDefault("JWT_EXPIRATION_HOURS", 168)
		viper.SetDefault("REFRESH_TOKEN_TTL_HOURS", 720)
		viper.SetDefault("DEFAULT_ADMIN_USERNAME", "admin")
		viper.SetDefault("DEFAULT_ADMIN_PASSWORD", "admin123!")
	}

	// Universal Defaults
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("OTEL_EXPORTER_ENDPOINT", "tempo:4318")
	viper.SetDefault("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs")
	viper.SetDefault("SUBSCRIPTION_SWEEP_CRON", "@hourly")
	viper.SetDefault("MEDIA_UPLOAD_URL_TTL_MINUTES", 15)
	viper.SetDefault("MEDIA_MAX_UPLOAD_BYTES", 10<<20)
	viper.SetDefault("NEARBY_FREE_DAILY_LIMIT", 5)
	viper.SetDefault("NEARBY_PREMIUM_DAILY_LIMIT", 100)
	viper.SetDefault("NEARBY_MAX_RADIUS_KM", 50.0)
	viper.SetDefault("GALLERY_FREE_LIMIT", 30)
	viper.SetDefault("GALLERY_PREMIUM_LIMIT", 300)

	// 3. Conditional Loading Logic
	if env == "development" {
		// --- DEVELOPMENT: Load from .env file ---
		_ = loadEnvFile(".env")
		_ = loadEnvFile("../.env")
	} else {
		// --- PRODUCTION: Load from Docker Secrets ---
		loadSecret("APP_SECRET", "app_secret")
		loadSecret("DATABASE_URL", "database_url")
		loadSecret("DB_HOST", "db_host")
		loadSecret("DB_PORT", "db_port")
		loadSecret("DB_USER", "db_user")
		loadSecret("DB_PASSWORD", "db_password")
		loadSecret("DB_NAME", "db_name")
		loadSecret("DB_SSL_MODE", "db_ssl_mode")
		loadSecret("REDIS_HOST", "redis_host")
		loadSecret("REDIS_PORT", "redis_port")
		loadSecret("REDIS_PASSWORD", "redis_password")
		loadSecret("PLAY_WEBHOOK_TOKEN", "play_webhook_token")
		loadSecret("DEFAULT_ADMIN_PASSWORD", "default_admin_password")
	}

	// 4. AutomaticEnv (System Env Vars override everything loaded so far)
	viper.AutomaticEnv()

	// 5. Explicit Overrides (for list values that arrive comma separated)
	bindListEnvs("CORS_ALLOWED_ORIGINS", "GOOGLE_CLIENT_IDS", "PLAY_PRODUCT_IDS")

	// 6. Unmarshal
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// 7. Post-Load Logic
	if config.DatabaseURL == "" {
		config.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			config.DbUser, config.DbPassword, config.DbHost, config.DbPort, config.DbName, config.DbSslMode,
		)
	}

	return
}

// loadSecret reads a file from /run/secrets and sets it in Viper
func loadSecret(key, name string) {
	candidates := []string{name, strings.ToUpper(name), strings.ToLower(name)}
	for _, filename := range candidates {
		path := fmt.Sprintf("/run/secrets/%s", filename)
		if _, err := os.Stat(path); err == nil {
			content, _ := os.ReadFile(path)
			if len(content) > 0 {
				viper.Set(key, strings.TrimSpace(string(content)))
				return
			}
		}
	}
}

// loadEnvFile parses a .env file and sets values into Viper AND os.Env
func loadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove surrounding quotes
		if len(value) > 1 && (value[0] == '"' || value[0] == '\'') && value[0] == value[len(value)-1] {
			value = value[1 : len(value)-1]
		}

		// Only set if not already set by system env (precedence)
		if os.Getenv(key) == "" {
			viper.Set(key, value)
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}

// bindListEnvs splits comma separated env values so they unmarshal into []string.
func bindListEnvs(keys ...string) {
	for _, key := range keys {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		viper.Set(key, SplitList(raw))
	}
}

// SplitList splits a comma separated value and drops blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate performs comprehensive configuration validation
func (c *Config) Validate() error {
	var errors []string

	if c.App_Secret == "" {
		errors = append(errors, "APP_SECRET is required")
	} else if len(c.App_Secret) < 32 {
		errors = append(errors, "APP_SECRET must be at least 32 characters long")
	}

	if c.DbUser == "" && c.DatabaseURL == "" {
		errors = append(errors, "DB_USER is required")
	}
	if c.DbName == "" && c.DatabaseURL == "" {
		errors = append(errors, "DB_NAME is required")
	}

	if c.IsProduction() {
		if len(c.GoogleClientIDs) == 0 {
			errors = append(errors, "GOOGLE_CLIENT_IDS is required")
		}
		if c.PlayPackageName == "" {
			errors = append(errors, "PLAY_PACKAGE_NAME is required")
		}
		if len(c.PlayProductIDs) == 0 {
			errors = append(errors, "PLAY_PRODUCT_IDS is required")
		}
		if c.PlayWebhookToken == "" {
			errors = append(errors, "PLAY_WEBHOOK_TOKEN is required")
		}
		if c.GCSBucket == "" {
			errors = append(errors, "GCS_BUCKET is required")
		}
	}

	if c.NearbyFreeDailyLimit < 0 || c.NearbyPremiumDailyLimit < c.NearbyFreeDailyLimit {
		errors = append(errors, "NEARBY_PREMIUM_DAILY_LIMIT must be >= NEARBY_FREE_DAILY_LIMIT >= 0")
	}
	if c.NearbyMaxRadiusKm <= 0 {
		errors = append(errors, "NEARBY_MAX_RADIUS_KM must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App_Env == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App_Env == "production"
}

// GetJWTExpiration returns the access token lifetime
func (c *Config) GetJWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

// GetRefreshTokenTTL returns the refresh token lifetime
func (c *Config) GetRefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLHours) * time.Hour
}

// GetRequestTimeout returns the request timeout duration
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetUploadURLTTL returns how long signed upload URLs stay valid
func (c *Config) GetUploadURLTTL() time.Duration {
	return time.Duration(c.MediaUploadURLMinutes) * time.Minute
}
