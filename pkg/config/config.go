package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable this service reads.
	EnvPrefix = "MATRKNHASH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Carriers      CarriersConfig
	Fitment       FitmentConfig
	Notifications NotificationsConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"MATRKNHASH_APP_ENV" required:"true"`
	Port         string `envconfig:"MATRKNHASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MATRKNHASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MATRKNHASH_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"MATRKNHASH_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MATRKNHASH_DB_DSN"`

	Host     string `envconfig:"MATRKNHASH_DB_HOST"`
	Port     int    `envconfig:"MATRKNHASH_DB_PORT" default:"5432"`
	User     string `envconfig:"MATRKNHASH_DB_USER"`
	Password string `envconfig:"MATRKNHASH_DB_PASSWORD"`
	Name     string `envconfig:"MATRKNHASH_DB_NAME"`
	SSLMode  string `envconfig:"MATRKNHASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MATRKNHASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MATRKNHASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MATRKNHASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MATRKNHASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MATRKNHASH_REDIS_URL"`
	Address      string        `envconfig:"MATRKNHASH_REDIS_ADDR"`
	Password     string        `envconfig:"MATRKNHASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"MATRKNHASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MATRKNHASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MATRKNHASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MATRKNHASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MATRKNHASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MATRKNHASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MATRKNHASH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MATRKNHASH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MATRKNHASH_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MATRKNHASH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MATRKNHASH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MATRKNHASH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MATRKNHASH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MATRKNHASH_ARGON_KEY_LEN" default:"32"`
}

// CarriersConfig covers the shipping integrations. Simulate keeps the service
// functional against carrier staging environments that reject unknown
// merchants: bookings are fabricated locally instead of calling out.
type CarriersConfig struct {
	BostaBaseURL  string        `envconfig:"MATRKNHASH_CARRIER_BOSTA_BASE_URL" default:"https://stg-api.bosta.co/api/v2"`
	BostaAPIKey   string        `envconfig:"MATRKNHASH_CARRIER_BOSTA_API_KEY"`
	AramexBaseURL string        `envconfig:"MATRKNHASH_CARRIER_ARAMEX_BASE_URL" default:"https://ws.aramex.net/ShippingAPI.V2"`
	AramexAPIKey  string        `envconfig:"MATRKNHASH_CARRIER_ARAMEX_API_KEY"`
	Simulate      bool          `envconfig:"MATRKNHASH_CARRIER_SIMULATE" default:"true"`
	Timeout       time.Duration `envconfig:"MATRKNHASH_CARRIER_TIMEOUT" default:"10s"`
	MaxRetries    uint64        `envconfig:"MATRKNHASH_CARRIER_MAX_RETRIES" default:"2"`
}

type FitmentConfig struct {
	BaseURL string        `envconfig:"MATRKNHASH_FITMENT_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey  string        `envconfig:"MATRKNHASH_FITMENT_API_KEY"`
	Model   string        `envconfig:"MATRKNHASH_FITMENT_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"MATRKNHASH_FITMENT_TIMEOUT" default:"20s"`
}

type NotificationsConfig struct {
	ChannelBuffer int    `envconfig:"MATRKNHASH_NOTIFY_CHANNEL_BUFFER" default:"16"`
	RedisChannel  string `envconfig:"MATRKNHASH_NOTIFY_REDIS_CHANNEL" default:"mh:events"`
	EnableBridge  bool   `envconfig:"MATRKNHASH_NOTIFY_ENABLE_BRIDGE" default:"false"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MATRKNHASH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MATRKNHASH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		"MATRKNHASH_DB_HOST": db.Host,
		"MATRKNHASH_DB_USER": db.User,
		"MATRKNHASH_DB_NAME": db.Name,
	}
	for _, key := range []string{"MATRKNHASH_DB_HOST", "MATRKNHASH_DB_USER", "MATRKNHASH_DB_NAME"} {
		if parts[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either MATRKNHASH_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
