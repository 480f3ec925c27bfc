package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASHBOARD_PAGE_SIZE", "")
	t.Setenv("BACKEND_BASE_URL", "")

	cfg := Load()

	assert.Equal(t, 10, cfg.Dashboard.PageSize)
	assert.Equal(t, "/api/orders", cfg.Backend.OrdersPath)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SnapshotTTL)
	assert.Equal(t, "dashboard-events", cfg.Kafka.TopicAudit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_PAGE_SIZE", "25")
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com/ ")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PROMETHEUS_PORT", "9300")

	cfg := Load()

	assert.Equal(t, 25, cfg.Dashboard.PageSize)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "9300", cfg.Observ.PrometheusPort)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DASHBOARD_PAGE_SIZE", "0")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.Dashboard.PageSize)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
}
