package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/config"
)

func TestDefaults(t *testing.T) {
	config.Reset()
	require.NoError(t, config.LoadFrom("", ""))

	assert.Equal(t, "sqlite", config.DatabaseDriver())
	assert.Equal(t, "storefront.db", config.DatabaseDSN())
	assert.Equal(t, "8080", config.AppPort())
	assert.Equal(t, "1.09", config.TaxMultiplier().String())
	assert.Equal(t, int64(900000), config.RialRate())
	assert.Equal(t, 10*time.Minute, config.CacheTTL())
	assert.Nil(t, config.KafkaBrokers())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"APP_PORT":"7000","DB_DRIVER":"postgres","RIAL_RATE":"1000"}`), 0o644))

	t.Setenv("APP_PORT", "9999")
	config.Reset()
	require.NoError(t, config.LoadFrom(jsonPath, ""))

	assert.Equal(t, "9999", config.AppPort())
	assert.Equal(t, "postgres", config.DatabaseDriver())
	assert.Contains(t, config.DatabaseDSN(), "dbname=storefront")
	assert.Equal(t, int64(1000), config.RialRate())
}

func TestDotEnvIsLoaded(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("KAFKA_BROKERS=a:9092, b:9092\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("KAFKA_BROKERS") })

	config.Reset()
	require.NoError(t, config.LoadFrom("", envPath))

	assert.Equal(t, []string{"a:9092", "b:9092"}, config.KafkaBrokers())
}

func TestMalformedFileIsReported(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{not json`), 0o644))

	config.Reset()
	assert.Error(t, config.LoadFrom(jsonPath, ""))
	config.Reset()
}

func TestUnknownDriverFallsBackToSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	config.Reset()
	require.NoError(t, config.LoadFrom("", ""))

	assert.Equal(t, "sqlite", config.DatabaseDriver())
}
