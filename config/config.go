// Package config loads the gateway configuration from the environment,
// an optional .env file, and an optional YAML overlay.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string `yaml:"port"`
	APIURL        string `yaml:"api_url"`
	PublicSiteURL string `yaml:"public_site_url"`
	LogFormat     string `yaml:"log_format"`

	Storage  StorageConfig  `yaml:"storage"`
	Session  SessionConfig  `yaml:"session"`
	Email    EmailConfig    `yaml:"email"`
	Paystack PaystackConfig `yaml:"paystack"`
	Upload   UploadConfig   `yaml:"upload"`
	Firebase FirebaseConfig `yaml:"firebase"`

	AdminAPIKey     string        `yaml:"admin_api_key"`
	APIServiceToken string        `yaml:"api_service_token"` // staff token for webhook and API-key admin calls
	PODRegion       string        `yaml:"pod_region"`
	GeocoderURL     string        `yaml:"geocoder_url"`
	CatalogCacheTTL time.Duration `yaml:"catalog_cache_ttl"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"` // postgres, sqlite, redis, memory
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	RedisAddr   string `yaml:"redis_addr"`
}

type SessionConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TTL       time.Duration `yaml:"ttl"`
	SweepHour int           `yaml:"sweep_hour"`
}

type EmailConfig struct {
	APISecret   string `yaml:"api_secret"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	UseTLS      bool   `yaml:"use_tls"`
	DefaultFrom string `yaml:"default_from"`
}

type PaystackConfig struct {
	PublicKey string `yaml:"public_key"`
	SecretKey string `yaml:"secret_key"`
	Currency  string `yaml:"currency"`
	BaseURL   string `yaml:"base_url"`
}

type UploadConfig struct {
	Driver    string `yaml:"driver"` // s3 or local
	Dir       string `yaml:"dir"`
	PublicURL string `yaml:"public_url"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	BackupDir string `yaml:"backup_dir"` // daily copy of Dir; empty disables
	PostURL   string `yaml:"post_url"`   // where browsers send local uploads

	// Static keys for S3-compatible stores; the default AWS chain is used when empty.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsJSON string `yaml:"credentials_json"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:          "8080",
		APIURL:        "http://localhost:8000/api",
		PublicSiteURL: "https://castledepots.co.ke",
		LogFormat:     "text",
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: "./castle-sessions.db",
			RedisAddr:  "localhost:6379",
		},
		Session: SessionConfig{
			TTL:       30 * 24 * time.Hour,
			SweepHour: 3,
		},
		Email: EmailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Paystack: PaystackConfig{
			Currency: "KES",
			BaseURL:  "https://api.paystack.co",
		},
		Upload: UploadConfig{
			Driver: "local",
			Dir:    "./uploads",
		},
		PODRegion:       "Nairobi",
		GeocoderURL:     "https://nominatim.openstreetmap.org",
		CatalogCacheTTL: 60 * time.Second,
		CORSOrigins:     []string{"*"},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CASTLE_CONFIG (if any), then environment variables (a local .env is read
// first when present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CASTLE_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	cfg.fillLocalUploadURLs()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.APIURL = strings.TrimSuffix(getEnv("API_URL", cfg.APIURL), "/")
	cfg.PublicSiteURL = strings.TrimSuffix(getEnv("PUBLIC_SITE_URL", cfg.PublicSiteURL), "/")
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DatabaseURL = getEnv("DATABASE_URL", cfg.Storage.DatabaseURL)
	if cfg.Storage.DatabaseURL == "" && os.Getenv("DB_HOST") != "" {
		cfg.Storage.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"), getEnv("DB_PORT", "5432"),
		)
	}
	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.RedisAddr = getEnv("REDIS_ADDR", cfg.Storage.RedisAddr)

	cfg.Session.JWTSecret = getEnv("JWT_SECRET", cfg.Session.JWTSecret)
	cfg.Session.TTL = getEnvDuration("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.SweepHour = getEnvInt("SESSION_SWEEP_HOUR", cfg.Session.SweepHour)

	cfg.Email.APISecret = getEnv("EMAIL_API_SECRET", cfg.Email.APISecret)
	cfg.Email.Host = getEnv("EMAIL_HOST", cfg.Email.Host)
	cfg.Email.Port = getEnvInt("EMAIL_PORT", cfg.Email.Port)
	cfg.Email.User = getEnv("EMAIL_HOST_USER", cfg.Email.User)
	cfg.Email.Password = getEnv("EMAIL_HOST_PASSWORD", cfg.Email.Password)
	cfg.Email.UseTLS = getEnvBool("EMAIL_USE_TLS", cfg.Email.UseTLS)
	cfg.Email.DefaultFrom = getEnv("DEFAULT_FROM_EMAIL", cfg.Email.DefaultFrom)

	cfg.Paystack.PublicKey = getEnv("PAYSTACK_PUBLIC_KEY", cfg.Paystack.PublicKey)
	cfg.Paystack.SecretKey = getEnv("PAYSTACK_SECRET_KEY", cfg.Paystack.SecretKey)
	cfg.Paystack.Currency = getEnv("PAYSTACK_CURRENCY", cfg.Paystack.Currency)
	cfg.Paystack.BaseURL = getEnv("PAYSTACK_BASE_URL", cfg.Paystack.BaseURL)

	cfg.Upload.Driver = getEnv("UPLOAD_DRIVER", cfg.Upload.Driver)
	cfg.Upload.Dir = getEnv("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.PublicURL = strings.TrimSuffix(getEnv("UPLOAD_PUBLIC_URL", cfg.Upload.PublicURL), "/")
	cfg.Upload.Bucket = getEnv("S3_BUCKET", cfg.Upload.Bucket)
	cfg.Upload.Region = getEnv("AWS_REGION", cfg.Upload.Region)
	cfg.Upload.Endpoint = getEnv("S3_ENDPOINT", cfg.Upload.Endpoint)

	cfg.Firebase.ProjectID = getEnv("FIREBASE_PROJECT_ID", cfg.Firebase.ProjectID)
	cfg.Firebase.CredentialsJSON = getEnv("FIREBASE_CREDENTIALS_JSON", cfg.Firebase.CredentialsJSON)

	cfg.Upload.BackupDir = getEnv("UPLOAD_BACKUP_DIR", cfg.Upload.BackupDir)
	cfg.Upload.PostURL = getEnv("UPLOAD_POST_URL", cfg.Upload.PostURL)
	cfg.Upload.AccessKeyID = getEnv("S3_ACCESS_KEY_ID", cfg.Upload.AccessKeyID)
	cfg.Upload.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", cfg.Upload.SecretAccessKey)

	cfg.AdminAPIKey = getEnv("ADMIN_API_KEY", cfg.AdminAPIKey)
	cfg.APIServiceToken = getEnv("API_SERVICE_TOKEN", cfg.APIServiceToken)
	cfg.PODRegion = getEnv("POD_REGION", cfg.PODRegion)
	cfg.GeocoderURL = strings.TrimSuffix(getEnv("GEOCODER_URL", cfg.GeocoderURL), "/")
	cfg.CatalogCacheTTL = getEnvDuration("CATALOG_CACHE_TTL", cfg.CatalogCacheTTL)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
}

// fillLocalUploadURLs points the local upload driver at this server when
// no public URLs were configured.
func (c *Config) fillLocalUploadURLs() {
	if c.Upload.Driver != "local" {
		return
	}
	base := "http://localhost:" + c.Port
	if c.Upload.PublicURL == "" {
		c.Upload.PublicURL = base + "/uploads"
	}
	if c.Upload.PostURL == "" {
		c.Upload.PostURL = base + "/api/upload/file"
	}
}

// Validate reports settings the gateway cannot start without.
func (c Config) Validate() error {
	if c.Session.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL or DB_HOST must be set for the postgres storage driver")
		}
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Upload.Driver {
	case "s3":
		if c.Upload.Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set for the s3 upload driver")
		}
	case "local":
	default:
		return fmt.Errorf("unknown upload driver %q", c.Upload.Driver)
	}
	return nil
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		slog.Warn("invalid int value, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		slog.Warn("invalid duration value, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		slog.Warn("invalid bool value, using default", "key", key, "value", value, "default", defaultValue)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
