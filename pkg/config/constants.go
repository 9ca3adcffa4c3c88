package config

const (
	EnvPrefix = "TILLPOINT"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	SalesStoreSQL   = "sql"
	SalesStoreMongo = "mongo"

	EnvAppEnv     = "TILLPOINT_APP_ENV"
	EnvPort       = "TILLPOINT_APP_PORT"
	EnvDBDSN      = "TILLPOINT_DB_DSN"
	EnvDBHost     = "TILLPOINT_DB_HOST"
	EnvDBUser     = "TILLPOINT_DB_USER"
	EnvDBPassword = "TILLPOINT_DB_PASSWORD"
	EnvDBName     = "TILLPOINT_DB_NAME"
	EnvRedisURL   = "TILLPOINT_REDIS_URL"
	EnvMongoURI   = "TILLPOINT_MONGO_URI"
	EnvSalesStore = "TILLPOINT_CHECKOUT_SALES_STORE"
	EnvTimeZone   = "TILLPOINT_CHECKOUT_TIME_ZONE"
	EnvUseSQLite  = "TILLPOINT_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
