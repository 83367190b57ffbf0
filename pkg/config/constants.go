package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry fully
	// prefixed names already, so this stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "RAID_DB_DSN"
	EnvDBHost = "RAID_DB_HOST"
	EnvDBUser = "RAID_DB_USER"
	EnvDBName = "RAID_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
