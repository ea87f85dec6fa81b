package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, ratios, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Coupon CouponConfig
	QR     QRConfig
	Raffle RaffleConfig
	Outbox OutboxConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Seoul"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	PoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Seoul"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret          string        `envconfig:"JWT_SECRET" required:"true"`
	AccessDuration  time.Duration `envconfig:"JWT_ACCESS_DURATION" default:"15m"`
	RefreshDuration time.Duration `envconfig:"JWT_REFRESH_DURATION" default:"336h"` // 14 days
	OTPTTL          time.Duration `envconfig:"AUTH_OTP_TTL" default:"5m"`
}

type CouponConfig struct {
	// Won per raffle ticket: amount 15000 with ratio 5000 yields 3 base tickets.
	TicketRatio int64         `envconfig:"COUPON_TICKET_RATIO" default:"5000"`
	TokenTTL    time.Duration `envconfig:"COUPON_TOKEN_TTL" default:"24h"`
}

type QRConfig struct {
	// Hex-encoded ed25519 public key of the dispenser authority.
	DispenserPublicKey string        `envconfig:"QR_DISPENSER_PUBLIC_KEY" required:"true"`
	RateLimitPerMin    int64         `envconfig:"QR_RATE_LIMIT_PER_MIN" default:"60"`
	ClockSkew          time.Duration `envconfig:"QR_CLOCK_SKEW" default:"5s"`
}

type RaffleConfig struct {
	SeedURL         string        `envconfig:"RAFFLE_SEED_URL" required:"true"`
	SeedRetries     int           `envconfig:"RAFFLE_SEED_RETRIES" default:"3"`
	SeedBackoffBase time.Duration `envconfig:"RAFFLE_SEED_BACKOFF_BASE" default:"2s"`
	SeedTimeout     time.Duration `envconfig:"RAFFLE_SEED_TIMEOUT" default:"30s"`
	LedgerURL       string        `envconfig:"RAFFLE_LEDGER_URL" required:"true"`
	LedgerTimeout   time.Duration `envconfig:"RAFFLE_LEDGER_TIMEOUT" default:"60s"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Seoul",
		},
		Redis: RedisConfig{
			Addr: "localhost:16379",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Seoul",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret:          "test-secret",
			AccessDuration:  15 * time.Minute,
			RefreshDuration: 14 * 24 * time.Hour,
			OTPTTL:          5 * time.Minute,
		},
		Coupon: CouponConfig{
			TicketRatio: 5000,
			TokenTTL:    24 * time.Hour,
		},
		QR: QRConfig{
			RateLimitPerMin: 60,
			ClockSkew:       5 * time.Second,
		},
		Raffle: RaffleConfig{
			SeedURL:         "http://localhost:9999/seed",
			SeedRetries:     3,
			SeedBackoffBase: 10 * time.Millisecond,
			SeedTimeout:     time.Second,
			LedgerURL:       "http://localhost:9998/entries",
			LedgerTimeout:   time.Second,
		},
		Outbox: OutboxConfig{
			PollInterval: 50 * time.Millisecond,
			BatchSize:    10,
		},
	}
}
