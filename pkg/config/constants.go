package config

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BASKETWISE_DB_DSN"
	EnvDBHost = "BASKETWISE_DB_HOST"
	EnvDBUser = "BASKETWISE_DB_USER"
	EnvDBName = "BASKETWISE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
