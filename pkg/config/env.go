package config

// EnvPrefix is empty: every field carries its full variable name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DataSourceSupabase = "supabase"
	DataSourcePostgres = "postgres"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

const (
	EnvAppEnv   = "PAINEL_APP_ENV"
	EnvPort     = "PAINEL_APP_PORT"
	EnvLogLevel = "PAINEL_LOG_LEVEL"

	EnvCORSOrigins = "PAINEL_CORS_ALLOWED_ORIGINS"

	EnvDataSource  = "PAINEL_DATA_SOURCE"
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_KEY"

	EnvDBDSN  = "PAINEL_DB_DSN"
	EnvDBHost = "PAINEL_DB_HOST"
	EnvDBUser = "PAINEL_DB_USER"
	EnvDBName = "PAINEL_DB_NAME"

	EnvRedisURL  = "PAINEL_REDIS_URL"
	EnvRedisAddr = "PAINEL_REDIS_ADDR"

	EnvCacheBackend = "PAINEL_CACHE_BACKEND"
	EnvCacheTTL     = "PAINEL_CACHE_TTL"
	EnvCacheWarm    = "PAINEL_CACHE_WARM_INTERVAL"

	EnvDashboardTitle   = "PAINEL_DASHBOARD_TITLE"
	EnvDashboardRefresh = "PAINEL_DASHBOARD_REFRESH_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
