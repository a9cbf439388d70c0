package config

const (
	// EnvPrefix is applied to every envconfig lookup.
	EnvPrefix = "vetri"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VETRI_DB_DSN"
	EnvDBHost = "VETRI_DB_HOST"
	EnvDBUser = "VETRI_DB_USER"
	EnvDBName = "VETRI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
