package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	Site          SiteConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Quotes        QuotesConfig
	Rates         RatesConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ATLASTREK_APP_ENV" required:"true"`
	Port         string `envconfig:"ATLASTREK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ATLASTREK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ATLASTREK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ATLASTREK_SERVICE_KIND" default:"api"`
}

type SiteConfig struct {
	PublicURL   string `envconfig:"ATLASTREK_SITE_PUBLIC_URL" default:"https://www.atlastrek.travel"`
	CompanyName string `envconfig:"ATLASTREK_SITE_COMPANY_NAME" default:"AtlasTrek Expeditions"`
}

type DBConfig struct {
	DSN    string `envconfig:"ATLASTREK_DB_DSN"`
	Driver string `envconfig:"ATLASTREK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ATLASTREK_DB_HOST"`
	LegacyPort     int    `envconfig:"ATLASTREK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ATLASTREK_DB_USER"`
	LegacyPassword string `envconfig:"ATLASTREK_DB_PASSWORD"`
	LegacyName     string `envconfig:"ATLASTREK_DB_NAME"`
	LegacySSLMode  string `envconfig:"ATLASTREK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ATLASTREK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ATLASTREK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ATLASTREK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ATLASTREK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ATLASTREK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ATLASTREK_REDIS_ADDR"`
	Password     string        `envconfig:"ATLASTREK_REDIS_PASSWORD"`
	DB           int           `envconfig:"ATLASTREK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ATLASTREK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ATLASTREK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ATLASTREK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ATLASTREK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ATLASTREK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ATLASTREK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ATLASTREK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ATLASTREK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ATLASTREK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ATLASTREK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ATLASTREK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ATLASTREK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ATLASTREK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ATLASTREK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow         time.Duration `envconfig:"ATLASTREK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit     int           `envconfig:"ATLASTREK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit        int           `envconfig:"ATLASTREK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SubscribeWindow     time.Duration `envconfig:"ATLASTREK_AUTH_RATE_LIMIT_SUBSCRIBE_WINDOW" default:"1m"`
	SubscribeEmailLimit int           `envconfig:"ATLASTREK_AUTH_RATE_LIMIT_SUBSCRIBE_EMAIL_LIMIT" default:"3"`
	SubscribeIPLimit    int           `envconfig:"ATLASTREK_AUTH_RATE_LIMIT_SUBSCRIBE_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool   `envconfig:"ATLASTREK_USE_SQLITE" default:"false"`
	AutoMigrate   bool   `envconfig:"ATLASTREK_AUTO_MIGRATE" default:"false"`
	GCSAccessMode string `envconfig:"ATLASTREK_GCS_ACCESS_MODE" default:"public"`
}

type QuotesConfig struct {
	NumberPrefix string        `envconfig:"ATLASTREK_QUOTE_NUMBER_PREFIX" default:"ATQ"`
	SentTTL      time.Duration `envconfig:"ATLASTREK_QUOTE_SENT_TTL" default:"720h"`
}

type RatesConfig struct {
	CacheTTL   time.Duration `envconfig:"ATLASTREK_RATES_CACHE_TTL" default:"6h"`
	WindowDays int           `envconfig:"ATLASTREK_RATES_WINDOW_DAYS" default:"365"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ATLASTREK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"ATLASTREK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ATLASTREK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"ATLASTREK_GCS_BUCKET_NAME" required:"true"`
	ExportBucketName  string        `envconfig:"ATLASTREK_GCS_EXPORT_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"ATLASTREK_GCS_UPLOAD_URL_EXPIRY" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"ATLASTREK_GCS_DOWNLOAD_URL_EXPIRY" required:"true"`
}

type MediaConfig struct {
	MaxUploadMB    int `envconfig:"ATLASTREK_MAX_UPLOAD_MB" default:"20"`
	ImageMaxWidth  int `envconfig:"ATLASTREK_MEDIA_IMAGE_MAX_WIDTH" default:"1920"`
	ImageMaxHeight int `envconfig:"ATLASTREK_MEDIA_IMAGE_MAX_HEIGHT" default:"1080"`
}

type PubSubConfig struct {
	ExportTopic           string `envconfig:"ATLASTREK_PUBSUB_EXPORT_TOPIC" required:"true"`
	ExportSubscription    string `envconfig:"ATLASTREK_PUBSUB_EXPORT_SUBSCRIPTION" required:"true"`
	MarketingTopic        string `envconfig:"ATLASTREK_PUBSUB_MARKETING_TOPIC" required:"true"`
	MarketingSubscription string `envconfig:"ATLASTREK_PUBSUB_MARKETING_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset              string `envconfig:"ATLASTREK_BIGQUERY_DATASET" default:"atlastrek"`
	MarketingEventsTable string `envconfig:"ATLASTREK_BIGQUERY_MARKETING_TABLE" default:"marketing_events"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
