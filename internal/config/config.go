package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string

	NotaryPrivateKey string

	PostgresDSN string

	EngineBackend string
	PolicyPath    string

	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitMaxKeys       int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	return Config{
		HTTPAddr:               envDefault("HTTP_ADDR", ":3001"),
		NotaryPrivateKey:       os.Getenv("NOTARY_PRIVATE_KEY"),
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		EngineBackend:          envDefault("ENGINE_BACKEND", "mock"),
		PolicyPath:             os.Getenv("CLAIM_POLICY_PATH"),
		RateLimitRequests:      envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds: envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitMaxKeys:       envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                envIntDefault("REDIS_DB", 0),
	}
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}
