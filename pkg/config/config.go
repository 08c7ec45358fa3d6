package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	DataSource DataSourceConfig
	Supabase   SupabaseConfig
	DB         DBConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Dashboard  DashboardConfig
	Features   FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DataSource.IsPostgres() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field requirements envconfig cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	var errs error
	if err := v.Struct(c.DataSource); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvDataSource, err))
	}
	if err := v.Struct(c.Cache); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvCacheBackend, err))
	}
	if err := v.Struct(c.Dashboard); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("dashboard: %w", err))
	}

	if c.DataSource.IsSupabase() {
		if c.Supabase.URL == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required when %s=%s", EnvSupabaseURL, EnvDataSource, DataSourceSupabase))
		} else if err := v.Var(c.Supabase.URL, "url"); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s must be a valid url", EnvSupabaseURL))
		}
		if c.Supabase.Key == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required when %s=%s", EnvSupabaseKey, EnvDataSource, DataSourceSupabase))
		}
	}
	if c.Cache.WarmInterval > 0 && c.Cache.WarmInterval >= c.Cache.TTL {
		errs = multierr.Append(errs, fmt.Errorf("%s must be shorter than %s", EnvCacheWarm, EnvCacheTTL))
	}
	if c.Cache.IsRedis() && c.Redis.URL == "" && c.Redis.Address == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s or %s is required when %s=%s", EnvRedisURL, EnvRedisAddr, EnvCacheBackend, CacheBackendRedis))
	}
	return errs
}

type AppConfig struct {
	Env          string `envconfig:"PAINEL_APP_ENV" required:"true"`
	Port         string `envconfig:"PAINEL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PAINEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAINEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	CORSAllowedOrigins []string      `envconfig:"PAINEL_CORS_ALLOWED_ORIGINS" default:"*"`
	ReadTimeout        time.Duration `envconfig:"PAINEL_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout       time.Duration `envconfig:"PAINEL_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"PAINEL_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DataSourceConfig struct {
	Kind string `envconfig:"PAINEL_DATA_SOURCE" default:"supabase" validate:"oneof=supabase postgres"`
}

func (d DataSourceConfig) IsSupabase() bool {
	return strings.EqualFold(d.Kind, DataSourceSupabase)
}

func (d DataSourceConfig) IsPostgres() bool {
	return strings.EqualFold(d.Kind, DataSourcePostgres)
}

// SupabaseConfig keeps the variable names the operations team already exports.
type SupabaseConfig struct {
	URL     string        `envconfig:"SUPABASE_URL"`
	Key     string        `envconfig:"SUPABASE_KEY"`
	Timeout time.Duration `envconfig:"PAINEL_SUPABASE_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	DSN string `envconfig:"PAINEL_DB_DSN"`

	LegacyHost     string `envconfig:"PAINEL_DB_HOST"`
	LegacyPort     int    `envconfig:"PAINEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAINEL_DB_USER"`
	LegacyPassword string `envconfig:"PAINEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAINEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAINEL_DB_SSLMODE" default:"require"`

	MaxOpenConns    int           `envconfig:"PAINEL_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"PAINEL_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"PAINEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAINEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PAINEL_REDIS_URL"`
	Address      string        `envconfig:"PAINEL_REDIS_ADDR"`
	Password     string        `envconfig:"PAINEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAINEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAINEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAINEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAINEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAINEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAINEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CacheConfig struct {
	Backend string        `envconfig:"PAINEL_CACHE_BACKEND" default:"memory" validate:"oneof=memory redis"`
	TTL     time.Duration `envconfig:"PAINEL_CACHE_TTL" default:"50s" validate:"gt=0"`

	// WarmInterval enables the background cache warmer when positive.
	WarmInterval time.Duration `envconfig:"PAINEL_CACHE_WARM_INTERVAL" default:"0s" validate:"gte=0"`
}

func (c CacheConfig) IsRedis() bool {
	return strings.EqualFold(c.Backend, CacheBackendRedis)
}

type DashboardConfig struct {
	Title           string        `envconfig:"PAINEL_DASHBOARD_TITLE" default:"📊 Painel Supervisório — Operações PBX & Vivo" validate:"required"`
	RefreshInterval time.Duration `envconfig:"PAINEL_DASHBOARD_REFRESH_INTERVAL" default:"120s" validate:"gte=1s"`
}

// RefreshSeconds is the whole-second refresh interval shown in the page caption.
func (d DashboardConfig) RefreshSeconds() int {
	return int(d.RefreshInterval / time.Second)
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PAINEL_AUTO_MIGRATE" default:"false"`
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
