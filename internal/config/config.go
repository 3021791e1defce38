package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal images

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBDriver string // mysql | postgres | sqlite

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresDSN string
	SQLitePath  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs int

	JWTSecret string
	JWTTTL    time.Duration

	AdminUsername     string
	AdminPasswordHash string

	PaymentGatewaySecret string

	Timezone          string
	OverdueSweepCron  string
	ReminderSweepCron string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	NotifyQueue       string
	NotifyMaxAttempts int

	AWSRegion      string
	AWSEndpointURL string
	KYCBucket      string
	PresignTTL     time.Duration

	AllowedOrigins []string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

// LoadDotenv reads files (default ".env") into the environment without
// overriding variables already set. A missing file is not an error.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func Load() *Config {
	c := &Config{
		AppEnv:   getenv("APP_ENV", "development"),
		AppPort:  getenv("APP_PORT", "8080"),
		DBDriver: getenv("DB_DRIVER", "mysql"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "shiksha"),
		MySQLUser: getenv("MYSQL_USER", "shiksha"),
		MySQLPass: getenv("MYSQL_PASS", ""),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SQLitePath:  getenv("SQLITE_PATH", "shiksha.db"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),
		IdempTTLSecs:  getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getduration("JWT_TTL", 24*time.Hour),

		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		PaymentGatewaySecret: os.Getenv("PAYMENT_GATEWAY_SECRET"),

		Timezone:          getenv("TIMEZONE", "Asia/Kolkata"),
		OverdueSweepCron:  getenv("OVERDUE_SWEEP_CRON", "0 1 * * *"),
		ReminderSweepCron: getenv("REMINDER_SWEEP_CRON", "0 9 * * *"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getint("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getenv("SMTP_FROM", "no-reply@shiksha.local"),

		NotifyQueue:       getenv("NOTIFY_QUEUE", "notify:queue"),
		NotifyMaxAttempts: getint("NOTIFY_MAX_ATTEMPTS", 5),

		AWSRegion:      getenv("AWS_REGION", "ap-south-1"),
		AWSEndpointURL: os.Getenv("AWS_ENDPOINT_URL"),
		KYCBucket:      getenv("KYC_BUCKET", "shiksha-kyc"),
		PresignTTL:     time.Duration(getint("PRESIGN_TTL_SECONDS", 900)) * time.Second,
	}
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.AllowedOrigins = append(c.AllowedOrigins, o)
		}
	}
	return c
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.PaymentGatewaySecret == "" {
		return errors.New("missing PAYMENT_GATEWAY_SECRET")
	}
	if c.AdminUsername == "" || c.AdminPasswordHash == "" {
		return errors.New("missing admin credentials (ADMIN_USERNAME/ADMIN_PASSWORD_HASH)")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	for name, spec := range map[string]string{"OVERDUE_SWEEP_CRON": c.OverdueSweepCron, "REMINDER_SWEEP_CRON": c.ReminderSweepCron} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}
	if c.NotifyMaxAttempts < 1 {
		return errors.New("NOTIFY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// Location is the timezone "today" is evaluated in for sweeps.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps DATE columns at UTC midnight
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return c.PostgresDSN
	case "sqlite":
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}
