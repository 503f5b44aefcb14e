package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	AI     AIConfig
	Audit  AuditConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings. When Enabled is false the
// service runs with a no-op repository: analyses are accepted but discarded.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for archiving uploaded bill documents.
// An empty Bucket disables archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// AIConfig holds settings for the generative provider behind the pipeline.
type AIConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// AuditConfig holds error-detection settings. TaxonomyFile optionally points
// at a text file replacing the built-in billing-error reference.
type AuditConfig struct {
	TaxonomyFile string `mapstructure:"taxonomy_file"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the CLEARBILL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLEARBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.enabled", true)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "clearbill")
	v.SetDefault("db.password", "clearbill_secret")
	v.SetDefault("db.name", "clearbill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults (archival off unless a bucket is configured)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// AI defaults
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.default_model", "")
	v.SetDefault("ai.timeout_secs", 120)

	// Audit defaults
	v.SetDefault("audit.taxonomy_file", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "CLEARBILL_SERVER_PORT",
		"server.read_timeout":  "CLEARBILL_SERVER_READ_TIMEOUT",
		"server.write_timeout": "CLEARBILL_SERVER_WRITE_TIMEOUT",
		"server.environment":   "CLEARBILL_SERVER_ENVIRONMENT",
		"db.enabled":           "CLEARBILL_DB_ENABLED",
		"db.host":              "CLEARBILL_DB_HOST",
		"db.port":              "CLEARBILL_DB_PORT",
		"db.user":              "CLEARBILL_DB_USER",
		"db.password":          "CLEARBILL_DB_PASSWORD",
		"db.name":              "CLEARBILL_DB_NAME",
		"db.sslmode":           "CLEARBILL_DB_SSLMODE",
		"db.max_open":          "CLEARBILL_DB_MAX_OPEN",
		"db.max_idle":          "CLEARBILL_DB_MAX_IDLE",
		"s3.region":            "CLEARBILL_S3_REGION",
		"s3.bucket":            "CLEARBILL_S3_BUCKET",
		"s3.endpoint":          "CLEARBILL_S3_ENDPOINT",
		"s3.access_key":        "CLEARBILL_S3_ACCESS_KEY",
		"s3.secret_key":        "CLEARBILL_S3_SECRET_KEY",
		"s3.presign_expiry":    "CLEARBILL_S3_PRESIGN_EXPIRY",
		"ai.provider":          "CLEARBILL_AI_PROVIDER",
		"ai.api_key":           "CLEARBILL_AI_API_KEY",
		"ai.default_model":     "CLEARBILL_AI_DEFAULT_MODEL",
		"ai.timeout_secs":      "CLEARBILL_AI_TIMEOUT_SECS",
		"audit.taxonomy_file":  "CLEARBILL_AUDIT_TAXONOMY_FILE",
		"cors.allowed_origins": "CLEARBILL_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CLEARBILL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLEARBILL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.AI = AIConfig{
		Provider:     v.GetString("ai.provider"),
		APIKey:       v.GetString("ai.api_key"),
		DefaultModel: v.GetString("ai.default_model"),
		TimeoutSecs:  v.GetInt("ai.timeout_secs"),
	}
	cfg.Audit = AuditConfig{
		TaxonomyFile: v.GetString("audit.taxonomy_file"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
