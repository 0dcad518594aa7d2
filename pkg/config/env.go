package config

// EnvPrefix scopes all environment variables consumed by the service.
const EnvPrefix = "CHATTERBOX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CHATTERBOX_DB_DSN"
	EnvDBHost = "CHATTERBOX_DB_HOST"
	EnvDBUser = "CHATTERBOX_DB_USER"
	EnvDBName = "CHATTERBOX_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
