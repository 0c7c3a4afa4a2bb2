package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the feeder configuration
type Config struct {
	Device struct {
		PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval" jsonschema:"default=100ms,description=Awake control loop poll period"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout" jsonschema:"default=30s,description=Inactivity before the feeder suspends"`
		Debounce     time.Duration `yaml:"debounce" json:"debounce" jsonschema:"default=250ms,description=Minimum interval between accepted button presses"`
	} `yaml:"device" json:"device" jsonschema:"description=Control loop configuration"`

	RTC struct {
		Driver string `yaml:"driver" json:"driver" jsonschema:"default=system,enum=system,enum=ds3231,description=Clock source"`
		Bus    string `yaml:"bus" json:"bus" jsonschema:"default=1,description=I2C bus name of the ds3231 chip"`
	} `yaml:"rtc" json:"rtc" jsonschema:"description=Clock source configuration"`

	Hardware HardwareConfig `yaml:"hardware" json:"hardware" jsonschema:"description=GPIO and I2C wiring of the front panel and motor"`

	Power struct {
		Mode      string `yaml:"mode" json:"mode" jsonschema:"default=timer,enum=timer,enum=suspend,description=Idle strategy: in-process timer or suspend to RAM"`
		RTCDevice string `yaml:"rtc_device" json:"rtc_device" jsonschema:"default=rtc0,description=RTC device under /sys/class/rtc used for the wakealarm"`
	} `yaml:"power" json:"power" jsonschema:"description=Idle power configuration"`

	Storage struct {
		DSN       string `yaml:"dsn" json:"dsn" jsonschema:"default=file:kibbler.db?cache=shared&mode=rwc,description=Database connection string"`
		Namespace string `yaml:"namespace" json:"namespace" jsonschema:"default=feeder,description=Settings namespace for the persisted schedule"`
		KeepDays  int    `yaml:"keep_days" json:"keep_days" jsonschema:"default=90,description=Days of feed history to keep"`
	} `yaml:"storage" json:"storage" jsonschema:"description=Persistence configuration"`

	Server struct {
		Enabled   bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Expose the REST API"`
		Listen    string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		FeedEvery time.Duration `yaml:"feed_every" json:"feed_every" jsonschema:"default=10s,description=Minimum interval between remote manual feeds"`
	} `yaml:"server" json:"server" jsonschema:"description=REST API configuration"`
}

// HardwareConfig holds the pin and bus assignment of the physical build. When
// disabled the daemon runs headless: no display, no panel input and a logged
// dispenser instead of the motor.
type HardwareConfig struct {
	Enabled    bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Drive real GPIO and I2C peripherals"`
	EncoderCLK string        `yaml:"encoder_clk" json:"encoder_clk" jsonschema:"description=GPIO pin of the encoder clock channel"`
	EncoderDT  string        `yaml:"encoder_dt" json:"encoder_dt" jsonschema:"description=GPIO pin of the encoder data channel"`
	Button     string        `yaml:"button" json:"button" jsonschema:"description=GPIO pin of the confirm button (active low)"`
	MotorPins  []string      `yaml:"motor_pins" json:"motor_pins" jsonschema:"description=Four GPIO pins of the stepper driver IN1..IN4"`
	StepDelay  time.Duration `yaml:"step_delay" json:"step_delay" jsonschema:"default=1ms,description=Delay between stepper half-steps"`
	DisplayBus string        `yaml:"display_bus" json:"display_bus" jsonschema:"default=1,description=I2C bus name of the ssd1306 display"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for the control loop
	if cfg.Device.PollInterval == 0 {
		cfg.Device.PollInterval = 100 * time.Millisecond
	}
	if cfg.Device.IdleTimeout == 0 {
		cfg.Device.IdleTimeout = 30 * time.Second
	}
	if cfg.Device.Debounce == 0 {
		cfg.Device.Debounce = 250 * time.Millisecond
	}

	// set defaults for the clock source
	if cfg.RTC.Driver == "" {
		cfg.RTC.Driver = "system"
	}
	if cfg.RTC.Bus == "" {
		cfg.RTC.Bus = "1"
	}

	// set defaults for hardware
	if cfg.Hardware.StepDelay == 0 {
		cfg.Hardware.StepDelay = time.Millisecond
	}
	if cfg.Hardware.DisplayBus == "" {
		cfg.Hardware.DisplayBus = "1"
	}

	// set defaults for power
	if cfg.Power.Mode == "" {
		cfg.Power.Mode = "timer"
	}
	if cfg.Power.RTCDevice == "" {
		cfg.Power.RTCDevice = "rtc0"
	}

	// set defaults for storage
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "file:kibbler.db?cache=shared&mode=rwc"
	}
	if cfg.Storage.Namespace == "" {
		cfg.Storage.Namespace = "feeder"
	}
	if cfg.Storage.KeepDays == 0 {
		cfg.Storage.KeepDays = 90
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.FeedEvery == 0 {
		cfg.Server.FeedEvery = 10 * time.Second
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate control loop config
	if cfg.Device.PollInterval < 10*time.Millisecond {
		return fmt.Errorf("device.poll_interval must be at least 10ms")
	}
	if cfg.Device.IdleTimeout < time.Second {
		return fmt.Errorf("device.idle_timeout must be at least 1 second")
	}

	// validate clock source
	if cfg.RTC.Driver != "system" && cfg.RTC.Driver != "ds3231" {
		return fmt.Errorf("rtc.driver must be system or ds3231, got %q", cfg.RTC.Driver)
	}

	// validate hardware wiring
	if cfg.Hardware.Enabled {
		if cfg.Hardware.EncoderCLK == "" || cfg.Hardware.EncoderDT == "" {
			return fmt.Errorf("hardware.encoder_clk and hardware.encoder_dt are required when hardware is enabled")
		}
		if cfg.Hardware.Button == "" {
			return fmt.Errorf("hardware.button is required when hardware is enabled")
		}
		if len(cfg.Hardware.MotorPins) != 4 {
			return fmt.Errorf("hardware.motor_pins must list exactly 4 pins, got %d", len(cfg.Hardware.MotorPins))
		}
	}

	// validate power config
	if cfg.Power.Mode != "timer" && cfg.Power.Mode != "suspend" {
		return fmt.Errorf("power.mode must be timer or suspend, got %q", cfg.Power.Mode)
	}

	// validate server config
	if cfg.Server.Enabled && cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server.timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout, feedEvery time.Duration) {
	return c.Server.Listen, c.Server.Timeout, c.Server.FeedEvery
}

// GetHardwareConfig returns the pin and bus assignment
func (c *Config) GetHardwareConfig() HardwareConfig {
	return c.Hardware
}
