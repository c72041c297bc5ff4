package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DBDSN             string
	JWTSecret         string
	RedisAddr         string
	LogFile           string
	LowStockThreshold int
}

func Load() Config {
	// .env is optional; deployments set real env vars.
	_ = godotenv.Load()

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		DBDSN:             getenv("DB_DSN", "comanda.db"), // sqlite file in project root
		JWTSecret:         getenv("JWT_SECRET", "dev-secret-change-me"),
		RedisAddr:         os.Getenv("REDIS_ADDR"), // empty disables the redis mirror
		LogFile:           getenv("LOG_FILE", "./comanda.log"),
		LowStockThreshold: getint("LOW_STOCK_THRESHOLD", 10),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s REDIS_ADDR=%s LOG_FILE=%s LOW_STOCK=%d",
		cfg.Port, cfg.DBDSN, cfg.RedisAddr, cfg.LogFile, cfg.LowStockThreshold)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
