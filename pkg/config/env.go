package config

const (
	EnvPrefix = "flora"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "FLORA_APP_ENV"
	EnvPort     = "FLORA_APP_PORT"
	EnvLogLevel = "FLORA_LOG_LEVEL"

	EnvDBDSN  = "FLORA_DB_DSN"
	EnvDBHost = "FLORA_DB_HOST"
	EnvDBUser = "FLORA_DB_USER"
	EnvDBName = "FLORA_DB_NAME"

	EnvRedisURL = "FLORA_REDIS_URL"

	EnvCORSAllowedOrigins = "FLORA_CORS_ALLOWED_ORIGINS"
	EnvFrontendURL        = "FLORA_FRONTEND_URL"

	EnvCatalogDefaultPageSize = "FLORA_CATALOG_DEFAULT_PAGE_SIZE"
	EnvCatalogMaxPageSize     = "FLORA_CATALOG_MAX_PAGE_SIZE"

	EnvAPIURL             = "FLORA_API_URL"
	EnvStorefrontPageSize = "FLORA_STOREFRONT_PAGE_SIZE"
	EnvStorefrontTimeout  = "FLORA_STOREFRONT_API_TIMEOUT"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// DefaultCORSOrigins are the local Vite dev (5173) and preview (4173) servers.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:4173",
	"http://127.0.0.1:4173",
}
