package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	PersistDriverMemory = "memory"
	PersistDriverRedis  = "redis"
	PersistDriverSQL    = "sql"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv           = "STOREFRONT_APP_ENV"
	EnvPort             = "STOREFRONT_APP_PORT"
	EnvAPIBaseURL       = "STOREFRONT_API_BASE_URL"
	EnvPersistDriver    = "STOREFRONT_PERSIST_DRIVER"
	EnvPersistNamespace = "STOREFRONT_PERSIST_NAMESPACE"
	EnvRedisURL         = "STOREFRONT_REDIS_URL"
	EnvRedisAddr        = "STOREFRONT_REDIS_ADDR"
	EnvDBDriver         = "STOREFRONT_DB_DRIVER"
	EnvDBDSN            = "STOREFRONT_DB_DSN"
	EnvSearchDebounce   = "STOREFRONT_SEARCH_DEBOUNCE"
	EnvCORSOrigins      = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)
