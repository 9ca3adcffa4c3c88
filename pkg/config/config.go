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
	Mongo        MongoConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(cfg.Mongo); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TILLPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"TILLPOINT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TILLPOINT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"TILLPOINT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"TILLPOINT_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"TILLPOINT_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"TILLPOINT_DB_DSN"`
	SQLitePath string `envconfig:"TILLPOINT_DB_SQLITE_PATH" default:"tillpoint.db"`

	LegacyHost     string `envconfig:"TILLPOINT_DB_HOST"`
	LegacyPort     int    `envconfig:"TILLPOINT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TILLPOINT_DB_USER"`
	LegacyPassword string `envconfig:"TILLPOINT_DB_PASSWORD"`
	LegacyName     string `envconfig:"TILLPOINT_DB_NAME"`
	LegacySSLMode  string `envconfig:"TILLPOINT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TILLPOINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TILLPOINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"TILLPOINT_DB_SLOW_QUERY" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TILLPOINT_REDIS_URL"`
	Address      string        `envconfig:"TILLPOINT_REDIS_ADDR"`
	Password     string        `envconfig:"TILLPOINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"TILLPOINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TILLPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TILLPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TILLPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type MongoConfig struct {
	URI             string        `envconfig:"TILLPOINT_MONGO_URI"`
	Database        string        `envconfig:"TILLPOINT_MONGO_DATABASE" default:"tillpoint"`
	SalesCollection string        `envconfig:"TILLPOINT_MONGO_SALES_COLLECTION" default:"sales"`
	ConnectTimeout  time.Duration `envconfig:"TILLPOINT_MONGO_CONNECT_TIMEOUT" default:"10s"`
}

type CheckoutConfig struct {
	TimeZone       string        `envconfig:"TILLPOINT_CHECKOUT_TIME_ZONE" default:"Africa/Johannesburg"`
	RuleCacheTTL   time.Duration `envconfig:"TILLPOINT_CHECKOUT_RULE_CACHE_TTL" default:"30s"`
	IdempotencyTTL time.Duration `envconfig:"TILLPOINT_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
	SalesStore     string        `envconfig:"TILLPOINT_CHECKOUT_SALES_STORE" default:"sql"`
}

// Location resolves the business time zone used for date-only promotion windows.
func (c CheckoutConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.TimeZone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading checkout time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// UsesMongoSales reports whether sale records are archived in MongoDB.
func (c CheckoutConfig) UsesMongoSales() bool {
	return strings.EqualFold(strings.TrimSpace(c.SalesStore), SalesStoreMongo)
}

func (c CheckoutConfig) validate(mongo MongoConfig) error {
	switch strings.ToLower(strings.TrimSpace(c.SalesStore)) {
	case SalesStoreSQL:
	case SalesStoreMongo:
		if mongo.URI == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvMongoURI, EnvSalesStore, SalesStoreMongo)
		}
	default:
		return fmt.Errorf("invalid %s %q", EnvSalesStore, c.SalesStore)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TILLPOINT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TILLPOINT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
