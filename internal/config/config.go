package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Export   ExportConfig   `mapstructure:"export"`
	Gate     GateConfig     `mapstructure:"gate"`
	Assets   AssetsConfig   `mapstructure:"assets"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig 选择嵌入式 SQLite（默认）或 Postgres。
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" | "postgres"

	// sqlite
	Path string `mapstructure:"path"`

	// postgres
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// ExportConfig 描述 PDF 导出流水线需要的外部地址与密钥。
type ExportConfig struct {
	InternalSecret     string `mapstructure:"internal_secret"`
	InternalAPIBaseURL string `mapstructure:"internal_api_base_url"`
	FrontendBaseURL    string `mapstructure:"frontend_base_url"`
}

// GateConfig 控制本地口令门禁。口令本身以 bcrypt 哈希存储在设置表里。
type GateConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AssetsConfig 限制资产上传行为。
type AssetsConfig struct {
	ClamdAddr        string `mapstructure:"clamd_addr"`
	MaxUploadBytes   int64  `mapstructure:"max_upload_bytes"`
	MaxAssets        int    `mapstructure:"max_assets"`
	MaxUploadsPerDay int    `mapstructure:"max_uploads_per_day"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/resumebuilder.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "resumebuilder")
	v.SetDefault("database.user", "resumebuilder")
	v.SetDefault("database.password", "resumebuilder")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("export.internal_api_base_url", "http://localhost:8080")
	v.SetDefault("export.frontend_base_url", "http://localhost:3000")
	v.SetDefault("gate.enabled", false)
	v.SetDefault("assets.clamd_addr", "")
	v.SetDefault("assets.max_upload_bytes", 5*1024*1024)
	v.SetDefault("assets.max_assets", 50)
	v.SetDefault("assets.max_uploads_per_day", 100)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                   "API_PORT",
		"database.driver":            "DATABASE_DRIVER",
		"database.path":              "DATABASE_PATH",
		"database.host":              "DATABASE_HOST",
		"database.port":              "DATABASE_PORT",
		"database.name":              "POSTGRES_DB",
		"database.user":              "POSTGRES_USER",
		"database.password":          "POSTGRES_PASSWORD",
		"database.sslmode":           "DATABASE_SSLMODE",
		"redis.host":                 "REDIS_HOST",
		"redis.port":                 "REDIS_PORT",
		"minio.endpoint":             "MINIO_ENDPOINT",
		"minio.public_endpoint":      "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":        "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":    "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":              "MINIO_USE_SSL",
		"minio.bucket":               "MINIO_BUCKET",
		"minio.region":               "MINIO_REGION",
		"minio.bucket_lookup":        "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":   "MINIO_AUTO_CREATE_BUCKET",
		"export.internal_secret":     "INTERNAL_API_SECRET",
		"export.internal_api_base_url": "INTERNAL_API_BASE_URL",
		"export.frontend_base_url":   "FRONTEND_BASE_URL",
		"gate.enabled":               "GATE_ENABLED",
		"assets.clamd_addr":          "CLAMD_ADDR",
		"assets.max_upload_bytes":    "ASSETS_MAX_UPLOAD_BYTES",
		"assets.max_assets":          "ASSETS_MAX_COUNT",
		"assets.max_uploads_per_day": "ASSETS_MAX_UPLOADS_PER_DAY",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.Path == "" {
			return errors.New("database path is required for sqlite")
		}
	case "postgres":
		if cfg.Database.Host == "" {
			return errors.New("database host is required")
		}
		if cfg.Database.Port <= 0 {
			return errors.New("database port must be positive")
		}
		if cfg.Database.Name == "" {
			return errors.New("database name is required")
		}
		if cfg.Database.User == "" {
			return errors.New("database user is required")
		}
		if cfg.Database.Password == "" {
			return errors.New("database password is required")
		}
		if cfg.Database.SSLMode == "" {
			return errors.New("database sslmode is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	return nil
}
