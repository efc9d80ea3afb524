package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/renvik/pistat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 2
rotate_interval = 5
i2c_bus = "0"
mountpoint = "/data"
probe_addr = "1.1.1.1:80"
sensor = true
sensor_addr = 64
power_log_interval = 10
log_level = "debug"
`)
	configPath := filepath.Join(tempDir, "pistat.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PISTAT_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Interval, "Expected Interval 2")
	assert.Equal(t, 5, cfg.RotateInterval, "Expected RotateInterval 5")
	assert.Equal(t, "0", cfg.I2CBus, "Expected I2CBus 0")
	assert.Equal(t, "/data", cfg.Mountpoint, "Expected Mountpoint /data")
	assert.Equal(t, "1.1.1.1:80", cfg.ProbeAddr, "Expected ProbeAddr 1.1.1.1:80")
	assert.True(t, cfg.Sensor, "Expected Sensor true")
	assert.Equal(t, 64, cfg.SensorAddr, "Expected SensorAddr 0x40")
	assert.Equal(t, 10, cfg.PowerLogInterval, "Expected PowerLogInterval 10")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("PISTAT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := config.Load()
	require.Error(t, err, "Explicit missing config file should fail")

	t.Setenv("PISTAT_CONFIG", "")
	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 1, cfg.Interval, "Expected default Interval 1")
	assert.Equal(t, 3, cfg.RotateInterval, "Expected default RotateInterval 3")
	assert.Equal(t, "1", cfg.I2CBus, "Expected default I2CBus 1")
	assert.Equal(t, "/", cfg.Mountpoint, "Expected default Mountpoint /")
	assert.Equal(t, "8.8.8.8:80", cfg.ProbeAddr, "Expected default ProbeAddr 8.8.8.8:80")
	assert.False(t, cfg.Sensor, "Expected default Sensor false")
	assert.Equal(t, 5, cfg.PowerLogInterval, "Expected default PowerLogInterval 5")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "pistat.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PISTAT_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "pistat.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PISTAT_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid log level")
}

func TestInvalidInterval(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 0
`)
	configPath := filepath.Join(tempDir, "pistat.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("PISTAT_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid interval")
}
