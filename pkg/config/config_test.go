package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
device:
  poll_interval: 50ms
  idle_timeout: 2m
  debounce: 300ms

rtc:
  driver: ds3231
  bus: "2"

hardware:
  enabled: true
  encoder_clk: GPIO17
  encoder_dt: GPIO27
  button: GPIO22
  motor_pins: [GPIO5, GPIO6, GPIO13, GPIO19]
  step_delay: 2ms
  display_bus: "2"

power:
  mode: suspend
  rtc_device: rtc1

storage:
  dsn: file:test.db
  namespace: barn
  keep_days: 14

server:
  enabled: true
  listen: ":9090"
  timeout: 45s
  feed_every: 30s
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, 50*time.Millisecond, cfg.Device.PollInterval)
		assert.Equal(t, 2*time.Minute, cfg.Device.IdleTimeout)
		assert.Equal(t, 300*time.Millisecond, cfg.Device.Debounce)

		assert.Equal(t, "ds3231", cfg.RTC.Driver)
		assert.Equal(t, "2", cfg.RTC.Bus)

		assert.True(t, cfg.Hardware.Enabled)
		assert.Equal(t, "GPIO17", cfg.Hardware.EncoderCLK)
		assert.Equal(t, "GPIO27", cfg.Hardware.EncoderDT)
		assert.Equal(t, "GPIO22", cfg.Hardware.Button)
		assert.Equal(t, []string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"}, cfg.Hardware.MotorPins)
		assert.Equal(t, 2*time.Millisecond, cfg.Hardware.StepDelay)
		assert.Equal(t, "2", cfg.Hardware.DisplayBus)

		assert.Equal(t, "suspend", cfg.Power.Mode)
		assert.Equal(t, "rtc1", cfg.Power.RTCDevice)

		assert.Equal(t, "file:test.db", cfg.Storage.DSN)
		assert.Equal(t, "barn", cfg.Storage.Namespace)
		assert.Equal(t, 14, cfg.Storage.KeepDays)

		assert.True(t, cfg.Server.Enabled)
		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 30*time.Second, cfg.Server.FeedEvery)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "device: {}\n"))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, 100*time.Millisecond, cfg.Device.PollInterval)
		assert.Equal(t, 30*time.Second, cfg.Device.IdleTimeout)
		assert.Equal(t, 250*time.Millisecond, cfg.Device.Debounce)

		assert.Equal(t, "system", cfg.RTC.Driver)
		assert.Equal(t, "1", cfg.RTC.Bus)

		assert.False(t, cfg.Hardware.Enabled)
		assert.Equal(t, time.Millisecond, cfg.Hardware.StepDelay)
		assert.Equal(t, "1", cfg.Hardware.DisplayBus)

		assert.Equal(t, "timer", cfg.Power.Mode)
		assert.Equal(t, "rtc0", cfg.Power.RTCDevice)

		assert.Equal(t, "file:kibbler.db?cache=shared&mode=rwc", cfg.Storage.DSN)
		assert.Equal(t, "feeder", cfg.Storage.Namespace)
		assert.Equal(t, 90, cfg.Storage.KeepDays)

		assert.False(t, cfg.Server.Enabled)
		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 10*time.Second, cfg.Server.FeedEvery)
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("KIBBLER_TEST_DSN", "file:env.db")
		configContent := `
storage:
  dsn: "${KIBBLER_TEST_DSN}"
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		assert.Equal(t, "file:env.db", cfg.Storage.DSN)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "bad rtc driver",
			content: "rtc:\n  driver: sundial\n",
			errMsg:  "rtc.driver must be system or ds3231",
		},
		{
			name:    "bad power mode",
			content: "power:\n  mode: hibernate\n",
			errMsg:  "power.mode must be timer or suspend",
		},
		{
			name:    "hardware without encoder pins",
			content: "hardware:\n  enabled: true\n  button: GPIO22\n  motor_pins: [a, b, c, d]\n",
			errMsg:  "hardware.encoder_clk and hardware.encoder_dt are required",
		},
		{
			name:    "hardware without button",
			content: "hardware:\n  enabled: true\n  encoder_clk: GPIO17\n  encoder_dt: GPIO27\n  motor_pins: [a, b, c, d]\n",
			errMsg:  "hardware.button is required",
		},
		{
			name:    "wrong motor pin count",
			content: "hardware:\n  enabled: true\n  encoder_clk: GPIO17\n  encoder_dt: GPIO27\n  button: GPIO22\n  motor_pins: [a, b]\n",
			errMsg:  "hardware.motor_pins must list exactly 4 pins",
		},
		{
			name:    "poll interval too small",
			content: "device:\n  poll_interval: 1ms\n",
			errMsg:  "device.poll_interval must be at least 10ms",
		},
		{
			name:    "idle timeout too small",
			content: "device:\n  idle_timeout: 100ms\n",
			errMsg:  "device.idle_timeout must be at least 1 second",
		},
		{
			name:    "server timeout too small",
			content: "server:\n  enabled: true\n  timeout: 500ms\n",
			errMsg:  "server.timeout must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Listen = ":9090"
	cfg.Server.Timeout = 45 * time.Second
	cfg.Server.FeedEvery = time.Minute

	listen, timeout, feedEvery := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)
	assert.Equal(t, time.Minute, feedEvery)
}

func TestConfig_GetHardwareConfig(t *testing.T) {
	cfg := &Config{}
	cfg.Hardware.Enabled = true
	cfg.Hardware.MotorPins = []string{"GPIO5", "GPIO6", "GPIO13", "GPIO19"}

	hw := cfg.GetHardwareConfig()
	assert.True(t, hw.Enabled)
	assert.Len(t, hw.MotorPins, 4)
}
