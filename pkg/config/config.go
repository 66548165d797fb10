package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for all Baxoq.Store settings.
const EnvPrefix = "baxoq"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Pricing      PricingConfig
	CORS         CORSConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAXOQ_APP_ENV" required:"true"`
	Port         string `envconfig:"BAXOQ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAXOQ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAXOQ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAXOQ_DB_DSN"`
	Driver string `envconfig:"BAXOQ_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BAXOQ_DB_HOST"`
	Port     int    `envconfig:"BAXOQ_DB_PORT" default:"5432"`
	User     string `envconfig:"BAXOQ_DB_USER"`
	Password string `envconfig:"BAXOQ_DB_PASSWORD"`
	Name     string `envconfig:"BAXOQ_DB_NAME"`
	SSLMode  string `envconfig:"BAXOQ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAXOQ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAXOQ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAXOQ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAXOQ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BAXOQ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BAXOQ_REDIS_ADDR"`
	Password     string        `envconfig:"BAXOQ_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAXOQ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAXOQ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAXOQ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAXOQ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAXOQ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAXOQ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAXOQ_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAXOQ_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAXOQ_JWT_EXPIRATION_MINUTES" default:"15"`
	// Refresh cookie lifetime; 7 days to match the storefront session policy.
	RefreshTokenTTLMinutes int `envconfig:"BAXOQ_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAXOQ_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAXOQ_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAXOQ_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAXOQ_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAXOQ_ARGON_KEY_LEN" default:"32"`
}

// PricingConfig overrides the storefront pricing rules. Values are decimal
// strings so they survive envconfig without float drift.
type PricingConfig struct {
	FreeShippingThreshold string `envconfig:"BAXOQ_PRICING_FREE_SHIPPING_THRESHOLD" default:"100.00"`
	FlatShippingFee       string `envconfig:"BAXOQ_PRICING_FLAT_SHIPPING_FEE" default:"15.99"`
	TaxRate               string `envconfig:"BAXOQ_PRICING_TAX_RATE" default:"0.08"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BAXOQ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BAXOQ_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BAXOQ_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		"BAXOQ_DB_HOST": db.Host,
		"BAXOQ_DB_USER": db.User,
		"BAXOQ_DB_NAME": db.Name,
	}
	for _, key := range []string{"BAXOQ_DB_HOST", "BAXOQ_DB_USER", "BAXOQ_DB_NAME"} {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either BAXOQ_DB_DSN or %s are required", strings.Join(missing, ", "))
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
