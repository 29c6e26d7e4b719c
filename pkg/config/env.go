package config

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "HAULMARKET_APP_ENV"
	EnvPort     = "HAULMARKET_APP_PORT"
	EnvLogLevel = "HAULMARKET_LOG_LEVEL"

	EnvDBDSN  = "HAULMARKET_DB_DSN"
	EnvDBHost = "HAULMARKET_DB_HOST"
	EnvDBUser = "HAULMARKET_DB_USER"
	EnvDBName = "HAULMARKET_DB_NAME"

	EnvRedisEnabled = "HAULMARKET_REDIS_ENABLED"
	EnvRedisURL     = "HAULMARKET_REDIS_URL"

	EnvGoogleMapsAPIKey = "HAULMARKET_GOOGLE_MAPS_API_KEY"

	EnvMatchingWasteTypeTTL      = "HAULMARKET_MATCHING_WASTE_TYPE_TTL"
	EnvMatchingWasteTypeCapacity = "HAULMARKET_MATCHING_WASTE_TYPE_CAPACITY"
	EnvMatchingVerifyDriving     = "HAULMARKET_MATCHING_VERIFY_DRIVING"
	EnvMatchingDrivingCap        = "HAULMARKET_MATCHING_DRIVING_CAP"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
