package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker = "localhost:9092"
	testAPIKey    = "tmrw-test-key"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "incident-reports", cfg.KafkaSourceTopic)
	assert.Equal(t, "region-impacts", cfg.KafkaSinkTopic)
	assert.Equal(t, "agri-alert-impact", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.True(t, cfg.FixturesEnabled)
	assert.False(t, cfg.WeatherEnabled)
	assert.Empty(t, cfg.TomorrowAPIKey)
	assert.Equal(t, 5*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 30*time.Minute, cfg.WeatherRefreshInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.WeatherRequestSpacing)
	assert.Equal(t, 64, cfg.WeatherCacheSize)
	assert.Equal(t, 15*time.Minute, cfg.WeatherCacheTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("FIXTURES_ENABLED", "false")
	t.Setenv("TOMORROW_API_KEY", testAPIKey)
	t.Setenv("WEATHER_TIMEOUT", "10s")
	t.Setenv("WEATHER_REFRESH_INTERVAL", "5m")
	t.Setenv("WEATHER_REQUEST_SPACING", "0s")
	t.Setenv("WEATHER_CACHE_SIZE", "16")
	t.Setenv("WEATHER_CACHE_TTL", "1m")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.False(t, cfg.FixturesEnabled)
	assert.True(t, cfg.WeatherEnabled)
	assert.Equal(t, testAPIKey, cfg.TomorrowAPIKey)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.Equal(t, 5*time.Minute, cfg.WeatherRefreshInterval)
	assert.Equal(t, time.Duration(0), cfg.WeatherRequestSpacing)
	assert.Equal(t, 16, cfg.WeatherCacheSize)
	assert.Equal(t, time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"WEATHER_TIMEOUT", "WEATHER_REFRESH_INTERVAL", "WEATHER_CACHE_TTL"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "0s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_NegativeRequestSpacing(t *testing.T) {
	t.Setenv("WEATHER_REQUEST_SPACING", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_REQUEST_SPACING")
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestLoad_WeatherEnabledWithoutKey(t *testing.T) {
	t.Setenv("WEATHER_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOMORROW_API_KEY")
}

func TestLoad_APIKeyImpliesEnabled(t *testing.T) {
	t.Setenv("TOMORROW_API_KEY", testAPIKey)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.WeatherEnabled)
}

func TestLoad_WeatherExplicitlyDisabled(t *testing.T) {
	t.Setenv("TOMORROW_API_KEY", testAPIKey)
	t.Setenv("WEATHER_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.WeatherEnabled)
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("WEATHER_CACHE_SIZE", "-4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.WeatherCacheSize)
}
