package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// ATLASTREK_* names so the prefix only matters for unannotated fields.
const EnvPrefix = "ATLASTREK"

const (
	AppEnvDev   = "dev"
	AppEnvProd  = "prod"
	AppEnvLocal = "local"
)

const (
	EnvAppEnv                 = "ATLASTREK_APP_ENV"
	EnvPort                   = "ATLASTREK_APP_PORT"
	EnvDBDSN                  = "ATLASTREK_DB_DSN"
	EnvDBHost                 = "ATLASTREK_DB_HOST"
	EnvDBUser                 = "ATLASTREK_DB_USER"
	EnvDBName                 = "ATLASTREK_DB_NAME"
	EnvRedisURL               = "ATLASTREK_REDIS_URL"
	EnvJWTSecret              = "ATLASTREK_JWT_SECRET"
	EnvJWTIssuer              = "ATLASTREK_JWT_ISSUER"
	EnvJWTExpMins             = "ATLASTREK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ATLASTREK_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "ATLASTREK_GCP_PROJECT_ID"
	EnvGCSBucket              = "ATLASTREK_GCS_BUCKET_NAME"
	EnvGCSUploadExpiry        = "ATLASTREK_GCS_UPLOAD_URL_EXPIRY"
	EnvGCSDownloadExpiry      = "ATLASTREK_GCS_DOWNLOAD_URL_EXPIRY"
	EnvPubSubExportTopic      = "ATLASTREK_PUBSUB_EXPORT_TOPIC"
	EnvPubSubExportSub        = "ATLASTREK_PUBSUB_EXPORT_SUBSCRIPTION"
	EnvPubSubMarketingTopic   = "ATLASTREK_PUBSUB_MARKETING_TOPIC"
	EnvPubSubMarketingSub     = "ATLASTREK_PUBSUB_MARKETING_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
