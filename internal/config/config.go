package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI       string
	MongoDB        string
	Port           string
	Mode           string
	AllowedOrigins []string
	// Timezone used for dashboard calendar-day boundaries.
	Location *time.Location
}

func Load() *Config {
	// A .env file is only present in local development; deployed
	// environments inject real env vars.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("could not load .env file:", err)
		}
	}

	// Default to UTC rather than the host zone: Mongo's $dateToString
	// only accepts Olson names or numeric offsets, never Go's "Local".
	loc := time.UTC
	if tz := getEnv("DASHBOARD_TZ", ""); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			log.Println("invalid DASHBOARD_TZ, falling back to UTC:", err)
		} else {
			loc = parsed
		}
	}

	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "jerseyworld"),
		Port:           getEnv("PORT", "8080"),
		Mode:           getEnv("GIN_MODE", "debug"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		Location:       loc,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
