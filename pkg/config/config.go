package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full configuration of the catalog API and the migration tool.
type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
}

// StorefrontConfig is the configuration of the server-rendered storefront.
// It never needs database or redis settings.
type StorefrontConfig struct {
	App        AppConfig
	Storefront StorefrontSettings
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadStorefront() (*StorefrontConfig, error) {
	var cfg StorefrontConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing storefront config: %w", err)
	}
	if err := cfg.Storefront.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLORA_APP_ENV" required:"true"`
	Port         string `envconfig:"FLORA_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"FLORA_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FLORA_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FLORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN string `envconfig:"FLORA_DB_DSN"`

	Host     string `envconfig:"FLORA_DB_HOST"`
	Port     int    `envconfig:"FLORA_DB_PORT" default:"5432"`
	User     string `envconfig:"FLORA_DB_USER"`
	Password string `envconfig:"FLORA_DB_PASSWORD"`
	Name     string `envconfig:"FLORA_DB_NAME"`
	SSLMode  string `envconfig:"FLORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLORA_REDIS_URL"`
	Address      string        `envconfig:"FLORA_REDIS_ADDR"`
	Password     string        `envconfig:"FLORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured. Without one the
// API runs without rate limiting.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// CORSConfig mirrors the storefront's allowed origins: the Vite dev and
// preview servers, plus anything listed in FLORA_CORS_ALLOWED_ORIGINS and the
// deployed frontend URL.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FLORA_CORS_ALLOWED_ORIGINS"`
	FrontendURL    string   `envconfig:"FLORA_FRONTEND_URL"`
}

// Origins returns the de-duplicated origin allow-list.
func (c CORSConfig) Origins() []string {
	origins := make([]string, 0, len(DefaultCORSOrigins)+len(c.AllowedOrigins)+1)
	seen := map[string]struct{}{}
	add := func(origin string) {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			return
		}
		if _, ok := seen[origin]; ok {
			return
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	for _, o := range DefaultCORSOrigins {
		add(o)
	}
	for _, o := range c.AllowedOrigins {
		add(o)
	}
	add(c.FrontendURL)
	return origins
}

type RateLimitConfig struct {
	CatalogWindow time.Duration `envconfig:"FLORA_RATE_LIMIT_CATALOG_WINDOW" default:"1m"`
	CatalogLimit  int           `envconfig:"FLORA_RATE_LIMIT_CATALOG_LIMIT" default:"120"`
}

type CatalogConfig struct {
	DefaultPageSize int `envconfig:"FLORA_CATALOG_DEFAULT_PAGE_SIZE" default:"12"`
	MaxPageSize     int `envconfig:"FLORA_CATALOG_MAX_PAGE_SIZE" default:"100"`
}

func (c CatalogConfig) validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("%s must be at least 1", EnvCatalogDefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("%s must be >= %s", EnvCatalogMaxPageSize, EnvCatalogDefaultPageSize)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FLORA_AUTO_MIGRATE" default:"false"`
}

type StorefrontSettings struct {
	Port       string        `envconfig:"FLORA_STOREFRONT_PORT" default:"5173"`
	APIURL     string        `envconfig:"FLORA_API_URL" default:"http://localhost:3001/api"`
	APITimeout time.Duration `envconfig:"FLORA_STOREFRONT_API_TIMEOUT" default:"10s"`
	PageSize   int           `envconfig:"FLORA_STOREFRONT_PAGE_SIZE" default:"12"`
}

func (s StorefrontSettings) validate() error {
	u, err := url.Parse(strings.TrimSpace(s.APIURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", EnvAPIURL, s.APIURL)
	}
	if s.PageSize < 1 {
		return fmt.Errorf("%s must be at least 1", EnvStorefrontPageSize)
	}
	return nil
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
