package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "cumadmin"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "CUMADMIN_APP_ENV"
	EnvPort   = "CUMADMIN_APP_PORT"
	EnvDBDSN  = "CUMADMIN_DB_DSN"
	EnvDBHost = "CUMADMIN_DB_HOST"
	EnvDBUser = "CUMADMIN_DB_USER"
	EnvDBName = "CUMADMIN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Webhook      WebhookConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CUMADMIN_APP_ENV" required:"true"`
	Port         string `envconfig:"CUMADMIN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CUMADMIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CUMADMIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CUMADMIN_DB_DSN"`
	Driver string `envconfig:"CUMADMIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CUMADMIN_DB_HOST"`
	LegacyPort     int    `envconfig:"CUMADMIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CUMADMIN_DB_USER"`
	LegacyPassword string `envconfig:"CUMADMIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"CUMADMIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"CUMADMIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CUMADMIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CUMADMIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CUMADMIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CUMADMIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CUMADMIN_REDIS_URL"`
	Address      string        `envconfig:"CUMADMIN_REDIS_ADDR"`
	Password     string        `envconfig:"CUMADMIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"CUMADMIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CUMADMIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CUMADMIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CUMADMIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CUMADMIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CUMADMIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// WebhookConfig carries the outbound webhook targets and the shared signing
// secret. An empty secret disables dispatch; the status write still succeeds.
type WebhookConfig struct {
	BookingURL  string        `envconfig:"CUMADMIN_BOOKING_WEBHOOK_URL" default:"https://your-main-app-url.com/api/webhooks/booking-status"`
	FacilityURL string        `envconfig:"CUMADMIN_FACILITY_WEBHOOK_URL" default:"https://your-main-app-url.com/api/webhooks/facility-status"`
	Secret      string        `envconfig:"CUMADMIN_WEBHOOK_SECRET"`
	Timeout     time.Duration `envconfig:"CUMADMIN_WEBHOOK_TIMEOUT" default:"10s"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"CUMADMIN_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CUMADMIN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CUMADMIN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
