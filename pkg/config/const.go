package config

const (
	// EnvPrefix scopes every environment variable this service reads.
	EnvPrefix = "MANIME"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
