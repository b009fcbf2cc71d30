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
	RemoteAPI    RemoteAPIConfig
	Persist      PersistConfig
	Redis        RedisConfig
	DB           DBConfig
	Auth         AuthConfig
	Search       SearchConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.RemoteAPI.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Persist.validate(); err != nil {
		return nil, err
	}
	if err := cfg.ensureBackend(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port            string        `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RemoteAPIConfig points at the storefront REST backend.
type RemoteAPIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
}

func (r RemoteAPIConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(r.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvAPIBaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url", EnvAPIBaseURL)
	}
	return nil
}

// PersistConfig controls where the cart/session state is mirrored.
type PersistConfig struct {
	Driver           string        `envconfig:"STOREFRONT_PERSIST_DRIVER" default:"sql"`
	Namespace        string        `envconfig:"STOREFRONT_PERSIST_NAMESPACE" default:"persist:root"`
	ClientID         string        `envconfig:"STOREFRONT_PERSIST_CLIENT_ID"`
	RehydrateTimeout time.Duration `envconfig:"STOREFRONT_PERSIST_REHYDRATE_TIMEOUT" default:"3s"`
	WriteTimeout     time.Duration `envconfig:"STOREFRONT_PERSIST_WRITE_TIMEOUT" default:"2s"`
	TTL              time.Duration `envconfig:"STOREFRONT_PERSIST_TTL" default:"0s"`
}

func (p PersistConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(p.Driver)) {
	case PersistDriverMemory, PersistDriverRedis, PersistDriverSQL:
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s", EnvPersistDriver, PersistDriverMemory, PersistDriverRedis, PersistDriverSQL)
	}
	if strings.TrimSpace(p.Namespace) == "" {
		return fmt.Errorf("%s is required", EnvPersistNamespace)
	}
	return nil
}

// NormalizedDriver returns the lower-cased persistence driver.
func (p PersistConfig) NormalizedDriver() string {
	return strings.ToLower(strings.TrimSpace(p.Driver))
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"file:storefront.db?_busy_timeout=5000"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the state database runs on sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// AuthConfig mirrors the access-token cookie the storefront keeps after login.
type AuthConfig struct {
	CookieName   string        `envconfig:"STOREFRONT_AUTH_COOKIE_NAME" default:"access_token"`
	CookieTTL    time.Duration `envconfig:"STOREFRONT_AUTH_COOKIE_TTL" default:"168h"`
	CookieSecure bool          `envconfig:"STOREFRONT_AUTH_COOKIE_SECURE" default:"true"`
	AdminRole    string        `envconfig:"STOREFRONT_AUTH_ADMIN_ROLE" default:"ADMIN"`
}

type SearchConfig struct {
	Debounce      time.Duration `envconfig:"STOREFRONT_SEARCH_DEBOUNCE" default:"500ms"`
	AdminPageSize int           `envconfig:"STOREFRONT_SEARCH_ADMIN_PAGE_SIZE" default:"5"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"true"`
}

func (c *Config) ensureBackend() error {
	switch c.Persist.NormalizedDriver() {
	case PersistDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis driver", EnvRedisURL, EnvRedisAddr)
		}
	case PersistDriverSQL:
		if strings.TrimSpace(c.DB.DSN) == "" {
			return fmt.Errorf("%s is required for the sql driver", EnvDBDSN)
		}
		switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
		case DBDriverSQLite, DBDriverPostgres:
		default:
			return fmt.Errorf("%s must be %s or %s", EnvDBDriver, DBDriverSQLite, DBDriverPostgres)
		}
	}
	return nil
}
