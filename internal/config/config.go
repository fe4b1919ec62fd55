package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Twilio   TwilioConfig
	Mail     MailConfig
	Uploads  UploadConfig
	Queue    QueueConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"attendant-desk"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"5001"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	// PublicBaseURL is the externally reachable origin (an ngrok tunnel in
	// development). Media links and reset links are built from it.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	StaticDir     string `env:"STATIC_DIR" envDefault:"static"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string `env:"AUTH_JWT_SECRET"`
	SessionTTLMinutes       int    `env:"AUTH_SESSION_TTL_MINUTES" envDefault:"720"`
	PasswordResetTTLMinutes int    `env:"AUTH_PASSWORD_RESET_TTL_MINUTES" envDefault:"60"`
	BcryptCost              int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	CookieName              string `env:"AUTH_COOKIE_NAME" envDefault:"attendant_session"`
	CookieSecure            bool   `env:"AUTH_COOKIE_SECURE" envDefault:"false"`
}

// TwilioConfig holds the messaging provider credentials.
type TwilioConfig struct {
	AccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	PhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
}

// MailConfig configures outbound SMTP used for password reset emails.
type MailConfig struct {
	Server        string `env:"MAIL_SERVER"`
	Port          int    `env:"MAIL_PORT" envDefault:"587"`
	UseTLS        bool   `env:"MAIL_USE_TLS" envDefault:"true"`
	Username      string `env:"MAIL_USERNAME"`
	Password      string `env:"MAIL_PASSWORD"`
	DefaultSender string `env:"MAIL_DEFAULT_SENDER"`
}

// UploadConfig controls where media files land and how large they may be.
type UploadConfig struct {
	Dir          string `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxSizeBytes int    `env:"UPLOAD_MAX_SIZE_BYTES" envDefault:"16777216"`
}

// QueueConfig toggles the asynq background worker.
type QueueConfig struct {
	Enabled     bool   `env:"QUEUE_ENABLED" envDefault:"true"`
	Concurrency int    `env:"QUEUE_CONCURRENCY" envDefault:"5"`
	Queues      string `env:"QUEUE_WEIGHTS" envDefault:"default=1,mail=2"`
	MaxRetry    int    `env:"QUEUE_MAX_RETRY" envDefault:"5"`
}

// Load reads configuration from the environment (and a .env file when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.App.PublicBaseURL = strings.TrimRight(cfg.App.PublicBaseURL, "/")
	return &cfg, nil
}

// Validate reports missing values the HTTP server cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if c.Twilio.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.Twilio.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.Twilio.PhoneNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Configured reports whether every SMTP setting needed to send mail is set.
func (m MailConfig) Configured() bool {
	return m.Server != "" && m.Username != "" && m.Password != "" && m.DefaultSender != ""
}
