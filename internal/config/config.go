package config

import (
	"fmt"
	"os"
	"strings"
)

// Config captures everything the server needs from the environment.
type Config struct {
	ListenAddr string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	RedisAddr    string
	KafkaBrokers []string
	OrderTopic   string

	JWTSecret string
}

// FromEnv populates a Config with defaults that can be overridden via
// environment variables.
func FromEnv() Config {
	return Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		DBUser:       getEnv("DB_USER", "root"),
		DBPass:       getEnv("DB_PASS", ""),
		DBHost:       getEnv("DB_HOST", "127.0.0.1"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBName:       getEnv("DB_NAME", "craftstore"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		OrderTopic:   getEnv("ORDER_TOPIC", "order-events"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
	}
}

// DSN builds the MySQL connection string. parseTime is required because order
// timestamps are scanned into time.Time.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
