// config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI     string
	MongoDBName  string
	RabbitURL    string
	ParentURL    string
	Port         string
	PollInterval time.Duration
	AdminIDs     []string
}

func Load() *Config {
	return &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName:  getEnv("MONGO_DB_NAME", "order_workflow_db"),
		RabbitURL:    getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		ParentURL:    getEnv("PARENT_URL", ""),
		Port:         getEnv("PORT", "8080"),
		PollInterval: getDuration("POLL_INTERVAL_SECONDS", 5),
		AdminIDs:     getList("ADMIN_IDS", "01024182175,01026546550"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallbackSeconds int) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallbackSeconds) * time.Second
}

func getList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
