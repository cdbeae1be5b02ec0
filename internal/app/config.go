package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/barky-backend/internal/data/cache"
	"github.com/yungbote/barky-backend/internal/data/db"
	"github.com/yungbote/barky-backend/internal/observability"
	"github.com/yungbote/barky-backend/internal/platform/envutil"
	"github.com/yungbote/barky-backend/internal/services"
)

const (
	defaultJWTSecret  = "defaultsecret"
	defaultConfigPath = "config/config.yaml"
)

type Config struct {
	Port            string        `yaml:"port"`
	LogMode         string        `yaml:"log_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Pages    PagesConfig    `yaml:"pages"`
	CORS     CORSConfig     `yaml:"cors"`
	Otel     OtelConfig     `yaml:"otel"`
}

type AuthConfig struct {
	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	PurgeInterval   time.Duration `yaml:"purge_interval"`
}

type DatabaseConfig struct {
	Driver       string        `yaml:"driver"`
	SQLitePath   string        `yaml:"sqlite_path"`
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Name         string        `yaml:"name"`
	SSLMode      string        `yaml:"sslmode"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	SlowQuery    time.Duration `yaml:"slow_query"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	HighlightTTL time.Duration `yaml:"highlight_ttl"`
}

type PagesConfig struct {
	DefaultPageSize int `yaml:"page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func DefaultConfig() Config {
	return Config{
		Port:            "8080",
		LogMode:         "development",
		ShutdownTimeout: 10 * time.Second,
		Auth: AuthConfig{
			JWTSecretKey:    defaultJWTSecret,
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
			PurgeInterval:   time.Hour,
		},
		Database: DatabaseConfig{
			Driver:     db.DriverSQLite,
			SQLitePath: "barky.db",
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Name:       "barky",
			SSLMode:    "disable",
			SlowQuery:  time.Second,
		},
		Redis: RedisConfig{HighlightTTL: time.Hour},
		Pages: PagesConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Otel:  OtelConfig{ServiceName: "barky", SampleRatio: 0.1},
	}
}

// LoadConfig layers defaults, the optional YAML file and the environment, then validates.
// It returns the path of the file it read, or "" when none was used.
func LoadConfig() (Config, string, error) {
	cfg := DefaultConfig()

	path := envutil.String("BARKY_CONFIG_PATH", "")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, path, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		path = ""
	default:
		return cfg, path, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.Auth.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecretKey)
	cfg.Auth.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", cfg.Auth.AccessTokenTTL)
	cfg.Auth.RefreshTokenTTL = envutil.Duration("REFRESH_TOKEN_TTL", cfg.Auth.RefreshTokenTTL)
	cfg.Auth.PurgeInterval = envutil.Duration("TOKEN_PURGE_INTERVAL", cfg.Auth.PurgeInterval)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Database.SSLMode)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.HighlightTTL = envutil.Duration("HIGHLIGHT_CACHE_TTL", cfg.Redis.HighlightTTL)

	cfg.Pages.DefaultPageSize = envutil.Int("PAGE_SIZE", cfg.Pages.DefaultPageSize)
	cfg.Pages.MaxPageSize = envutil.Int("MAX_PAGE_SIZE", cfg.Pages.MaxPageSize)

	cfg.CORS.AllowOrigins = envutil.List("CORS_ALLOW_ORIGINS", cfg.CORS.AllowOrigins)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	if v := envutil.String("OTEL_SAMPLER_RATIO", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Otel.SampleRatio = f
		}
	}
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.LogMode)) {
	case "prod", "production":
		return true
	}
	return false
}

func (c Config) Validate() error {
	var errs []error
	secret := strings.TrimSpace(c.Auth.JWTSecretKey)
	if secret == "" {
		errs = append(errs, errors.New("jwt secret key must not be empty"))
	} else if c.IsProduction() && secret == defaultJWTSecret {
		errs = append(errs, errors.New("jwt secret key must be changed from the default in production"))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token ttls must be positive"))
	}
	switch strings.ToLower(c.Database.Driver) {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported db driver %q", c.Database.Driver))
	}
	if c.Pages.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.Pages.MaxPageSize < c.Pages.DefaultPageSize {
		errs = append(errs, errors.New("max page size must be at least the page size"))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) DBConfig() db.Config {
	return db.Config{
		Driver:           strings.ToLower(c.Database.Driver),
		SQLitePath:       c.Database.SQLitePath,
		PostgresHost:     c.Database.Host,
		PostgresPort:     c.Database.Port,
		PostgresUser:     c.Database.User,
		PostgresPassword: c.Database.Password,
		PostgresName:     c.Database.Name,
		PostgresSSLMode:  c.Database.SSLMode,
		MaxOpenConns:     c.Database.MaxOpenConns,
		MaxIdleConns:     c.Database.MaxIdleConns,
		SlowQuery:        c.Database.SlowQuery,
	}
}

func (c Config) CacheConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TTL:      c.Redis.HighlightTTL,
	}
}

func (c Config) PageConfig() services.PageConfig {
	return services.PageConfig{
		DefaultPageSize: c.Pages.DefaultPageSize,
		MaxPageSize:     c.Pages.MaxPageSize,
	}
}

func (c Config) OtelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.Otel.ServiceName,
		Environment: c.LogMode,
		Endpoint:    c.Otel.Endpoint,
		Headers:     observability.ParseHeaders(c.Otel.Headers),
		Insecure:    c.Otel.Insecure,
		SampleRatio: c.Otel.SampleRatio,
	}
}
