package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Keycloak  KeycloakConfig
	JWT       JWTConfig
	MinIO     MinIOConfig
	Clipboard ClipboardConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// MongoDBConfig is optional: with an empty URI the service keeps revisions in memory.
type MongoDBConfig struct {
	URI          string
	Database     string
	Collection   string
	Timeout      time.Duration
	ConnectTries int
}

// RedisConfig is optional: with an empty host locks and rate limits stay process-local.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	LockTTL  time.Duration
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type KeycloakConfig struct {
	URL      string
	Realm    string
	ClientID string
}

// Issuer returns the realm issuer url, or "" when Keycloak is not configured.
func (k KeycloakConfig) Issuer() string {
	if k.URL == "" || k.Realm == "" {
		return ""
	}
	return strings.TrimRight(k.URL, "/") + "/realms/" + k.Realm
}

type JWTConfig struct {
	Secret string
}

type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Bucket     string
	PresignTTL time.Duration
}

type ClipboardConfig struct {
	// OriginKey is the symmetric secret of this deployment's clipboard payloads.
	OriginKey string
}

type RateLimitConfig struct {
	RPS    float64
	Burst  int
	Window time.Duration
}

// AuthEnabled reports whether any token verifier is configured.
func (c *Config) AuthEnabled() bool {
	return c.JWT.Secret != "" || c.Keycloak.Issuer() != ""
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5010")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGODB_DATABASE", "gogotex")
	v.SetDefault("MONGODB_COLLECTION", "document_revisions")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MONGODB_CONNECT_TRIES", 5)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_LOCK_TTL", 30)
	v.SetDefault("MINIO_BUCKET", "gogotex")
	v.SetDefault("MINIO_PRESIGN_TTL", 15)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_WINDOW", 60)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		MongoDB: MongoDBConfig{
			URI:          v.GetString("MONGODB_URI"),
			Database:     v.GetString("MONGODB_DATABASE"),
			Collection:   v.GetString("MONGODB_COLLECTION"),
			Timeout:      time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
			ConnectTries: v.GetInt("MONGODB_CONNECT_TRIES"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LockTTL:  time.Duration(v.GetInt("REDIS_LOCK_TTL")) * time.Second,
		},
		Keycloak: KeycloakConfig{
			URL:      v.GetString("KEYCLOAK_URL"),
			Realm:    v.GetString("KEYCLOAK_REALM"),
			ClientID: v.GetString("KEYCLOAK_CLIENT_ID"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		MinIO: MinIOConfig{
			Endpoint:   v.GetString("MINIO_ENDPOINT"),
			AccessKey:  v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:  v.GetString("MINIO_SECRET_KEY"),
			UseSSL:     v.GetBool("MINIO_USE_SSL"),
			Bucket:     v.GetString("MINIO_BUCKET"),
			PresignTTL: time.Duration(v.GetInt("MINIO_PRESIGN_TTL")) * time.Minute,
		},
		Clipboard: ClipboardConfig{
			OriginKey: v.GetString("CLIPBOARD_ORIGIN_KEY"),
		},
		RateLimit: RateLimitConfig{
			RPS:    v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:  v.GetInt("RATE_LIMIT_BURST"),
			Window: time.Duration(v.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is empty"))
	}
	if c.MongoDB.URI != "" && c.MongoDB.Database == "" {
		errs = append(errs, errors.New("MONGODB_DATABASE is required with MONGODB_URI"))
	}
	if c.Keycloak.Issuer() != "" && c.Keycloak.ClientID == "" {
		errs = append(errs, errors.New("KEYCLOAK_CLIENT_ID is required with KEYCLOAK_URL"))
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative (rps=%v burst=%d)", c.RateLimit.RPS, c.RateLimit.Burst))
	}
	if c.Server.Environment == "production" && c.Clipboard.OriginKey == "" {
		errs = append(errs, errors.New("CLIPBOARD_ORIGIN_KEY is required in production"))
	}
	return errors.Join(errs...)
}
