package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings shared by the worker, the HTTP
// server and the seeder.
type Config struct {
	TemporalHost  string
	TaskQueue     string
	MongoURI      string
	MongoDatabase string
	HTTPAddr      string
}

// Load reads configuration from the environment, after loading a .env
// file when one is present. Missing values fall back to local-dev
// defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		TemporalHost:  getEnv("TEMPORAL_HOST", "localhost:7233"),
		TaskQueue:     getEnv("TASK_QUEUE", "ecommerce-task-queue"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "ecommerce_db"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":5000"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
