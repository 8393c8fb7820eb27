package config

import (
	"os"
	"strconv"
)

// CapacityPolicy controls how schedule over-allocation is handled when
// creating assignments.
type CapacityPolicy string

const (
	// CapacityWarn flags over-allocated assignments but lets them through.
	CapacityWarn CapacityPolicy = "warn"
	// CapacityEnforce rejects assignments that exceed the user's windowed capacity.
	CapacityEnforce CapacityPolicy = "enforce"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	TokenTTLHours  int
	GinMode        string
	Port           string
	CapacityPolicy CapacityPolicy
}

func Load() *Config {
	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "calendar"),
		DBPassword:     getEnv("DB_PASSWORD", "calendar"),
		DBName:         getEnv("DB_NAME", "project_calendar"),
		JWTSecret:      getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTLHours:  getEnvInt("TOKEN_TTL_HOURS", 24*7),
		GinMode:        getEnv("GIN_MODE", "debug"),
		Port:           getEnv("PORT", "8081"),
		CapacityPolicy: capacityPolicy(getEnv("CAPACITY_POLICY", string(CapacityWarn))),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func capacityPolicy(raw string) CapacityPolicy {
	if CapacityPolicy(raw) == CapacityEnforce {
		return CapacityEnforce
	}
	return CapacityWarn
}
