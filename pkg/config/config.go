package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"VETRI_APP_ENV" required:"true"`
	Port         string `envconfig:"VETRI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VETRI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VETRI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VETRI_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VETRI_DB_DSN"`
	Driver string `envconfig:"VETRI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VETRI_DB_HOST"`
	LegacyPort     int    `envconfig:"VETRI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VETRI_DB_USER"`
	LegacyPassword string `envconfig:"VETRI_DB_PASSWORD"`
	LegacyName     string `envconfig:"VETRI_DB_NAME"`
	LegacySSLMode  string `envconfig:"VETRI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VETRI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VETRI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VETRI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VETRI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VETRI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VETRI_REDIS_ADDR"`
	Password     string        `envconfig:"VETRI_REDIS_PASSWORD"`
	DB           int           `envconfig:"VETRI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VETRI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VETRI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VETRI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VETRI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VETRI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type RateLimitConfig struct {
	WriteWindow time.Duration `envconfig:"VETRI_RATE_LIMIT_WRITE_WINDOW" default:"1m"`
	WriteLimit  int64         `envconfig:"VETRI_RATE_LIMIT_WRITE_LIMIT" default:"120"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VETRI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VETRI_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval            time.Duration `envconfig:"VETRI_CRON_INTERVAL" default:"24h"`
	LockTTL             time.Duration `envconfig:"VETRI_CRON_LOCK_TTL" default:"25h"`
	OutboxRetentionDays int           `envconfig:"VETRI_CRON_OUTBOX_RETENTION_DAYS" default:"14"`
	MetricsPort         string        `envconfig:"VETRI_CRON_METRICS_PORT" default:"9102"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VETRI_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VETRI_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VETRI_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	EventsTopic string `envconfig:"VETRI_PUBSUB_EVENTS_TOPIC" default:"vetri-domain-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VETRI_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VETRI_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VETRI_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
