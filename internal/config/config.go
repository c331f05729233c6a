// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all configuration parameters for the exporter. Every field
// can be set through a UMAMI_EXPORT_* environment variable; explicit CLI
// flags override these values in the command layer.
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// Server connection
	BaseURL   string `mapstructure:"baseurl"`
	WebsiteID string `mapstructure:"websiteid"`

	// Authentication (exactly one mode must end up set)
	ShareID  string `mapstructure:"shareid"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`

	// Export window and paging
	StartAt  string `mapstructure:"startat"`
	EndAt    string `mapstructure:"endat"`
	Timezone string `mapstructure:"timezone"`
	Limit    int    `mapstructure:"limit"`

	// Output settings
	OutputPath string `mapstructure:"out"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "umamiexport")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelInfo))
		v.SetDefault("timezone", "UTC")
		v.SetDefault("limit", 500)
		v.SetDefault("logsdir", "")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)

		// Bind environment variables
		v.BindEnv("appname", "UMAMI_EXPORT_APP_NAME")
		v.BindEnv("environment", "UMAMI_EXPORT_ENV")
		v.BindEnv("loglevel", "UMAMI_EXPORT_LOG_LEVEL")
		v.BindEnv("baseurl", "UMAMI_EXPORT_BASE_URL")
		v.BindEnv("websiteid", "UMAMI_EXPORT_WEBSITE_ID")
		v.BindEnv("shareid", "UMAMI_EXPORT_SHARE_ID")
		v.BindEnv("username", "UMAMI_EXPORT_USERNAME")
		v.BindEnv("password", "UMAMI_EXPORT_PASSWORD")
		v.BindEnv("token", "UMAMI_EXPORT_TOKEN")
		v.BindEnv("startat", "UMAMI_EXPORT_START_AT")
		v.BindEnv("endat", "UMAMI_EXPORT_END_AT")
		v.BindEnv("timezone", "UMAMI_EXPORT_TIMEZONE")
		v.BindEnv("limit", "UMAMI_EXPORT_LIMIT")
		v.BindEnv("out", "UMAMI_EXPORT_OUT")
		v.BindEnv("logsdir", "UMAMI_EXPORT_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "UMAMI_EXPORT_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "UMAMI_EXPORT_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "UMAMI_EXPORT_LOGS_MAX_AGE_IN_DAYS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetLogLevel returns the log level as a string
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the logs directory; empty disables file logging
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
