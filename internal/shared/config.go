package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	PayBase      string
	PayKey       string
	AMQPURL      string
	AMQPExchange string
	SeedWorkers  int
	CacheTTL     time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/stayhub?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		JWTSecret:    env("JWT_SECRET", ""),
		AccessTTL:    time.Duration(atoi("ACCESS_TTL_MINUTES", 15)) * time.Minute,
		RefreshTTL:   time.Duration(atoi("REFRESH_TTL_HOURS", 24*7)) * time.Hour,
		PayBase:      env("PAY_BASE_URL", "https://api.payment.example.com"),
		PayKey:       env("PAY_API_KEY", ""),
		AMQPURL:      env("AMQP_URL", ""),
		AMQPExchange: env("AMQP_EXCHANGE", "stayhub.bookings"),
		SeedWorkers:  atoi("SEED_WORKERS", 8),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; using an insecure development secret")
		c.JWTSecret = "dev-insecure-secret"
	}
	if c.PayKey == "" {
		log.Warn().Msg("PAY_API_KEY is empty; payment confirmation is disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
