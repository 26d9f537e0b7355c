package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"      default:"0.0.0.0"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
		} `envconfig:"SHUTDOWN"`
		ReadTimeoutSeconds  int `envconfig:"READ_TIMEOUT_SECONDS"  default:"15"`
		WriteTimeoutSeconds int `envconfig:"WRITE_TIMEOUT_SECONDS" default:"30"`
	} `envconfig:"SERVER"`

	App struct {
		Name         string `envconfig:"APP_NAME" default:"tourbook"`
		Timezone     string `envconfig:"TIMEZONE" default:"Asia/Colombo"`
		URL          string `envconfig:"URL"`
		MaxBodyBytes int64  `envconfig:"MAX_BODY_BYTES" default:"10485760"`
		CORS         struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable bool `envconfig:"ENABLE" default:"true"`
			// ProviderRegistrationMax overrides the POST /api/providers rule.
			ProviderRegistrationMax int `envconfig:"PROVIDER_REGISTRATION_MAX" default:"10"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL                   int `envconfig:"TTL" default:"300"`
		RecommendationTTL     int `envconfig:"RECOMMENDATION_TTL" default:"900"`
		DialTimeoutSeconds    int `envconfig:"DIAL_TIMEOUT_SECONDS" default:"5"`
		ReadWriteTimeoutMilli int `envconfig:"READ_WRITE_TIMEOUT_MILLI" default:"500"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"60"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
		Cookie           struct {
			Name   string `envconfig:"NAME"   default:"session"`
			Domain string `envconfig:"DOMAIN"`
			Secure bool   `envconfig:"SECURE"`
		} `envconfig:"COOKIE"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"       default:"3"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			Region          string `envconfig:"REGION" default:"auto"`
			MaxFileSizeMB   int    `envconfig:"MAX_FILE_SIZE_MB" default:"5"`
		} `envconfig:"S3"`
		Stripe struct {
			SecretKey      string `envconfig:"SECRET_KEY"`
			PublishableKey string `envconfig:"PUBLISHABLE_KEY"`
			WebhookSecret  string `envconfig:"WEBHOOK_SECRET"`
			Currency       string `envconfig:"CURRENCY" default:"lkr"`
			Breaker        struct {
				MaxRequests      uint32 `envconfig:"MAX_REQUESTS"      default:"1"`
				IntervalSeconds  int    `envconfig:"INTERVAL_SECONDS"  default:"60"`
				TimeoutSeconds   int    `envconfig:"TIMEOUT_SECONDS"   default:"30"`
				FailureThreshold uint32 `envconfig:"FAILURE_THRESHOLD" default:"5"`
			} `envconfig:"BREAKER"`
		} `envconfig:"STRIPE"`
	} `envconfig:"EXTERNAL"`
}

// IsProduction reports whether the service runs with production hardening (HSTS, secure cookies).
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Warn().Err(err).Msg("Configuration initialized without .env file")
		}
	}

	return &conf
}
