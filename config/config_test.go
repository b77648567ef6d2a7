package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TEMPORAL_HOST", "")
	t.Setenv("TASK_QUEUE", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGODB_DATABASE", "")
	t.Setenv("HTTP_ADDR", "")

	cfg := Load()

	assert.Equal(t, "localhost:7233", cfg.TemporalHost)
	assert.Equal(t, "ecommerce-task-queue", cfg.TaskQueue)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "ecommerce_db", cfg.MongoDatabase)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TEMPORAL_HOST", "temporal:7233")
	t.Setenv("TASK_QUEUE", "orders")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("MONGODB_DATABASE", "shop")
	t.Setenv("HTTP_ADDR", ":8080")

	cfg := Load()

	assert.Equal(t, "temporal:7233", cfg.TemporalHost)
	assert.Equal(t, "orders", cfg.TaskQueue)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "shop", cfg.MongoDatabase)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}
