package config

import (
	"encoding/base64"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      string
	BaseURL   string // public base URL used to build local permalinks
	MongoURI  string
	DBName    string
	JWTSecret string
	LogLevel  string
	LogPretty bool

	// Static render cache. When CacheS3Bucket is set fragments go to S3,
	// otherwise to CacheDir on local disk.
	CacheDir         string
	CacheS3Bucket    string
	CacheS3Region    string
	CacheS3Prefix    string
	CacheS3AccessKey string
	CacheS3SecretKey string

	// 32 bytes for AES-256; encrypts Micropub tokens at rest. Optional,
	// base64 in env.
	TokenEncryptionKey []byte

	MicropubTimeout time.Duration

	// Predefined credentials used to seed the first user.
	AuthEmail string
	AuthPass  string
	AuthSlug  string
}

func Load() (*Config, error) {
	timeout := 30 * time.Second
	if v := getEnv("MICROPUB_TIMEOUT_SECONDS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	var tokenKey []byte
	if k := getEnv("TOKEN_ENCRYPTION_KEY", ""); k != "" {
		tokenKey, _ = base64.StdEncoding.DecodeString(k)
		if len(tokenKey) != 32 {
			tokenKey = nil
		}
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		MongoURI:           getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:             getEnv("MONGODB_DB", "readlog"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnv("LOG_PRETTY", "") == "true",
		CacheDir:           getEnv("CACHE_DIR", "cache"),
		CacheS3Bucket:      getEnv("CACHE_S3_BUCKET", ""),
		CacheS3Region:      getEnv("CACHE_S3_REGION", "us-east-1"),
		CacheS3Prefix:      getEnv("CACHE_S3_PREFIX", "fragments/"),
		CacheS3AccessKey:   getEnv("AWS_ACCESS_KEY_ID", ""),
		CacheS3SecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		TokenEncryptionKey: tokenKey,
		MicropubTimeout:    timeout,
		AuthEmail:          getEnv("AUTH_EMAIL", "user@example.com"),
		AuthPass:           getEnv("AUTH_PASSWORD", "password"),
		AuthSlug:           getEnv("AUTH_SLUG", "reader"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
