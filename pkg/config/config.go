package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	GoogleMaps   GoogleMapsConfig
	Matching     MatchingConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Matching.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HAULMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"HAULMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HAULMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HAULMARKET_LOG_WARN_STACK" default:"false"`

	CORSOrigins     []string      `envconfig:"HAULMARKET_CORS_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"HAULMARKET_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HAULMARKET_DB_DSN"`
	Driver string `envconfig:"HAULMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HAULMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"HAULMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HAULMARKET_DB_USER"`
	LegacyPassword string `envconfig:"HAULMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"HAULMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"HAULMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HAULMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HAULMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HAULMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HAULMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	ConnectAttempts    int           `envconfig:"HAULMARKET_DB_CONNECT_ATTEMPTS" default:"3"`
	SlowQueryThreshold time.Duration `envconfig:"HAULMARKET_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	Enabled      bool          `envconfig:"HAULMARKET_REDIS_ENABLED" default:"false"`
	URL          string        `envconfig:"HAULMARKET_REDIS_URL"`
	Address      string        `envconfig:"HAULMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"HAULMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"HAULMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HAULMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HAULMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HAULMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HAULMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HAULMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GoogleMapsConfig struct {
	APIKey         string        `envconfig:"HAULMARKET_GOOGLE_MAPS_API_KEY"`
	RequestTimeout time.Duration `envconfig:"HAULMARKET_GOOGLE_MAPS_TIMEOUT" default:"5s"`
}

// MatchingConfig tunes the matching engine.
type MatchingConfig struct {
	WasteTypeMemoTTL      time.Duration `envconfig:"HAULMARKET_MATCHING_WASTE_TYPE_TTL" default:"5m"`
	WasteTypeMemoCapacity int           `envconfig:"HAULMARKET_MATCHING_WASTE_TYPE_CAPACITY" default:"500"`
	VerifyDrivingDistance bool          `envconfig:"HAULMARKET_MATCHING_VERIFY_DRIVING" default:"false"`
	DrivingCandidateCap   int           `envconfig:"HAULMARKET_MATCHING_DRIVING_CAP" default:"25"`
}

func (m MatchingConfig) validate() error {
	if m.WasteTypeMemoTTL < 0 {
		return fmt.Errorf("%s must not be negative", EnvMatchingWasteTypeTTL)
	}
	if m.WasteTypeMemoCapacity < 0 {
		return fmt.Errorf("%s must not be negative", EnvMatchingWasteTypeCapacity)
	}
	if m.VerifyDrivingDistance && m.DrivingCandidateCap <= 0 {
		return fmt.Errorf("%s must be positive when driving verification is enabled", EnvMatchingDrivingCap)
	}
	return nil
}

type PricingConfig struct {
	CurrencyPlaces int32 `envconfig:"HAULMARKET_PRICING_CURRENCY_PLACES" default:"2"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HAULMARKET_AUTO_MIGRATE" default:"false"`
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
