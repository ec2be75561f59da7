package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified envconfig tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv    = "TECHSTORE_APP_ENV"
	EnvPort      = "TECHSTORE_APP_PORT"
	EnvDBDSN     = "TECHSTORE_DB_DSN"
	EnvDBHost    = "TECHSTORE_DB_HOST"
	EnvDBUser    = "TECHSTORE_DB_USER"
	EnvDBName    = "TECHSTORE_DB_NAME"
	EnvRedisURL  = "TECHSTORE_REDIS_URL"
	EnvJWTSecret = "TECHSTORE_JWT_SECRET"
	EnvJWTIssuer = "TECHSTORE_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
