package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "order"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "ORDER_APP_ENV"
	EnvDBDSN  = "ORDER_DB_DSN"
	EnvDBHost = "ORDER_DB_HOST"
	EnvDBUser = "ORDER_DB_USER"
	EnvDBName = "ORDER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"ORDER_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ORDER_DB_DSN"`
	Driver string `envconfig:"ORDER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORDER_DB_HOST"`
	LegacyPort     int    `envconfig:"ORDER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORDER_DB_USER"`
	LegacyPassword string `envconfig:"ORDER_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORDER_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORDER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ORDER_REDIS_ADDR"`
	Password     string        `envconfig:"ORDER_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ORDER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ORDER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ORDER_JWT_EXPIRATION_MINUTES" required:"true"`
}

// RateLimitConfig caps order mutations per client IP and per authenticated
// actor inside a fixed window.
type RateLimitConfig struct {
	Window     time.Duration `envconfig:"ORDER_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit    int           `envconfig:"ORDER_RATE_LIMIT_IP" default:"120"`
	ActorLimit int           `envconfig:"ORDER_RATE_LIMIT_ACTOR" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORDER_AUTO_MIGRATE" default:"false"`
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
