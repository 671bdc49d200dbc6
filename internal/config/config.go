package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Auth     AuthConfig
	Meta     MetaConfig
	AI       AIConfig
	Storage  StorageConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Host       string
	Port       int
	PublicURL  string
	Env        string
	RateLimit  float64 // requests per second per client, 0 disables
	AdminPanel bool
}

// IsProduction reports whether cookies and redirects should assume TLS.
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the connection string, preferring DATABASE_URL when set.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type SessionConfig struct {
	Secret     string
	TTLHours   int
	CookieName string
	PruneCron  string
}

// AuthConfig describes the OpenID Connect identity provider.
type AuthConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Domains      []string
	Scopes       []string
}

// MetaConfig describes the ads-platform OAuth app and Graph API.
type MetaConfig struct {
	AppID       string
	AppSecret   string
	GraphURL    string
	DialogURL   string
	RedirectURI string
	Scopes      []string
}

type AIConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	Provider  string // local, s3
	UploadDir string
	S3        S3Config
}

type S3Config struct {
	BucketName string `env:"S3_BUCKET_NAME" required:"true"`
	Endpoint   string `env:"S3_ENDPOINT"`
	Region     string `env:"S3_REGION" required:"true"`
	AccessKey  string `env:"S3_ACCESS_KEY" required:"true"`
	SecretKey  string `env:"S3_SECRET_KEY" required:"true"`
}

type RedisConfig struct {
	Addr     string
	Password string
	Username string
	DB       int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:       getEnv("SERVER_HOST", "0.0.0.0"),
			Port:       getEnvAsInt("SERVER_PORT", 5000),
			PublicURL:  getEnv("PUBLIC_URL", "http://localhost:5000"),
			Env:        getEnv("APP_ENV", "development"),
			RateLimit:  getEnvAsFloat("RATE_LIMIT", 20),
			AdminPanel: getEnvAsBool("ADMIN_PANEL", true),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "draperads"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			TTLHours:   getEnvAsInt("SESSION_TTL_HOURS", 24*7),
			CookieName: getEnv("SESSION_COOKIE_NAME", "draper.sid"),
			PruneCron:  getEnv("SESSION_PRUNE_CRON", "*/15 * * * *"),
		},
		Auth: AuthConfig{
			IssuerURL:    getEnv("AUTH_ISSUER_URL", "https://replit.com/oidc"),
			ClientID:     getEnv("AUTH_CLIENT_ID", getEnv("REPL_ID", "")),
			ClientSecret: getEnv("AUTH_CLIENT_SECRET", ""),
			Domains:      getEnvAsList("AUTH_DOMAINS", getEnvAsList("REPLIT_DOMAINS", nil)),
			Scopes:       getEnvAsList("AUTH_SCOPES", []string{"openid", "email", "profile", "offline_access"}),
		},
		Meta: MetaConfig{
			AppID:       getEnv("META_APP_ID", ""),
			AppSecret:   getEnv("META_APP_SECRET", ""),
			GraphURL:    getEnv("META_GRAPH_URL", "https://graph.facebook.com/v18.0"),
			DialogURL:   getEnv("META_DIALOG_URL", "https://www.facebook.com/v18.0/dialog/oauth"),
			RedirectURI: getEnv("META_REDIRECT_URI", "http://localhost:5000/api/meta/callback"),
			Scopes: getEnvAsList("META_SCOPES", []string{
				"ads_management", "ads_read", "business_management",
				"pages_show_list", "pages_read_engagement", "instagram_basic",
			}),
		},
		AI: AIConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:  getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		},
		Storage: StorageConfig{
			Provider:  getEnv("STORAGE_PROVIDER", "local"),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			S3: S3Config{
				BucketName: getEnv("S3_BUCKET_NAME", ""),
				Endpoint:   getEnv("S3_ENDPOINT", ""),
				Region:     getEnv("S3_REGION", ""),
				AccessKey:  getEnv("S3_ACCESS_KEY", ""),
				SecretKey:  getEnv("S3_SECRET_KEY", ""),
			},
		},
		Redis: RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", getEnv("REDIS_HOST", "localhost"), getEnvAsInt("REDIS_PORT", 6379)),
			Password: getEnv("REDIS_PASSWORD", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	if cfg.Session.Secret == "" {
		if cfg.Server.IsProduction() {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		cfg.Session.Secret = "draperads-development-secret"
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
