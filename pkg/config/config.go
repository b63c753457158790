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
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"MANIME_APP_ENV" required:"true"`
	Port         string `envconfig:"MANIME_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MANIME_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MANIME_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MANIME_DB_DSN"`
	Driver string `envconfig:"MANIME_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MANIME_DB_HOST"`
	Port     int    `envconfig:"MANIME_DB_PORT" default:"5432"`
	User     string `envconfig:"MANIME_DB_USER"`
	Password string `envconfig:"MANIME_DB_PASSWORD"`
	Name     string `envconfig:"MANIME_DB_NAME"`
	SSLMode  string `envconfig:"MANIME_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MANIME_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MANIME_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MANIME_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MANIME_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either MANIME_DB_DSN or MANIME_DB_HOST/USER/NAME must be set")
	}
	userInfo := url.User(d.User)
	if d.Password != "" {
		userInfo = url.UserPassword(d.User, d.Password)
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	d.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"MANIME_REDIS_URL"`
	Address      string        `envconfig:"MANIME_REDIS_ADDR"`
	Password     string        `envconfig:"MANIME_REDIS_PASSWORD"`
	DB           int           `envconfig:"MANIME_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MANIME_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MANIME_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MANIME_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MANIME_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MANIME_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MANIME_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MANIME_JWT_ISSUER" default:"manime-identity"`
	ExpirationMinutes int    `envconfig:"MANIME_JWT_EXPIRATION_MINUTES" default:"60"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"MANIME_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"MANIME_PUBSUB_DOMAIN_TOPIC" default:"manime-domain-events"`
	DomainSubscription string `envconfig:"MANIME_PUBSUB_DOMAIN_SUBSCRIPTION" default:"manime-notify-worker"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"MANIME_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"MANIME_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts    int           `envconfig:"MANIME_OUTBOX_MAX_ATTEMPTS" default:"10"`
	PublishTimeout time.Duration `envconfig:"MANIME_OUTBOX_PUBLISH_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MANIME_FEATURE_AUTO_MIGRATE" default:"false"`
}
