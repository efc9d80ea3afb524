package config

import (
	"os"

	"codeberg.org/renvik/pistat/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval         = 1
	defaultRotateInterval   = 3
	defaultI2CBus           = "1"
	defaultSensorAddr       = 0x40
	defaultMountpoint       = "/"
	defaultProbeAddr        = "8.8.8.8:80"
	defaultPowerLogInterval = 5
)

type Config struct {
	Interval         int    `mapstructure:"interval"`
	RotateInterval   int    `mapstructure:"rotate_interval"`
	I2CBus           string `mapstructure:"i2c_bus"`
	Mountpoint       string `mapstructure:"mountpoint"`
	ProbeAddr        string `mapstructure:"probe_addr"`
	Sensor           bool   `mapstructure:"sensor"`
	SensorAddr       int    `mapstructure:"sensor_addr"`
	PowerLogInterval int    `mapstructure:"power_log_interval"`
	LogLevel         string `mapstructure:"log_level"`
	Debug            bool   `mapstructure:"debug"`
	Verbose          bool   `mapstructure:"verbose"`
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	v.SetDefault("interval", defaultInterval)
	v.SetDefault("rotate_interval", defaultRotateInterval)
	v.SetDefault("i2c_bus", defaultI2CBus)
	v.SetDefault("mountpoint", defaultMountpoint)
	v.SetDefault("probe_addr", defaultProbeAddr)
	v.SetDefault("sensor", false)
	v.SetDefault("sensor_addr", defaultSensorAddr)
	v.SetDefault("power_log_interval", defaultPowerLogInterval)
	v.SetDefault("log_level", DefaultLogLevel)

	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	// Tolerate foreign flags so Load works inside `go test` binaries.
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Int("interval", defaultInterval, "Seconds between display refreshes")
	flags.Int("rotate-interval", defaultRotateInterval, "Seconds each network slot stays on screen")
	flags.String("i2c-bus", defaultI2CBus, "I2C bus name or number the display and sensor are wired to")
	flags.String("mountpoint", defaultMountpoint, "Filesystem to report storage usage for")
	flags.String("probe-addr", defaultProbeAddr, "Address used to discover the outbound interface")
	flags.Bool("sensor", false, "Enable the INA219 power sensor")
	flags.Int("sensor-addr", defaultSensorAddr, "I2C address of the power sensor")
	flags.Int("power-log-interval", defaultPowerLogInterval, "Seconds between power rail log reports (0 disables)")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// Map dashed flag names onto the config keys before binding
	bindings := map[string]string{
		"interval":           "interval",
		"rotate_interval":    "rotate-interval",
		"i2c_bus":            "i2c-bus",
		"mountpoint":         "mountpoint",
		"probe_addr":         "probe-addr",
		"sensor":             "sensor",
		"sensor_addr":        "sensor-addr",
		"power_log_interval": "power-log-interval",
		"log_level":          "log-level",
		"debug":              "debug",
		"verbose":            "verbose",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v.SetEnvPrefix("PISTAT")
	v.AutomaticEnv()

	if path := os.Getenv("PISTAT_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pistat")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").WithData(err.Error())
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.RotateInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.RotateInterval)
	}
	if c.PowerLogInterval < 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.PowerLogInterval)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

func (l LogLevel) String() string {
	return string(l)
}
