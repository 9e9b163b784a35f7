package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"scorecard/internal/score"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger is the process logger configuration.
	Logger LoggerConfig `mapstructure:"logger"`
	// Server is the HTTP server configuration.
	Server ServerConfig `mapstructure:"server"`
	// Scorecard locates the model artifact the index is built from.
	Scorecard ScorecardConfig `mapstructure:"scorecard"`
	// Rules is an optional path to a YAML rejection-rule table.
	// The built-in table is used when it is empty.
	Rules string `mapstructure:"rules"`
	// Decision holds the accept/reject policy parameters.
	Decision DecisionConfig `mapstructure:"decision"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level is one of debug, info, warn, warning, error (case-insensitive).
	Level string `mapstructure:"level"`
	// Format is json or text.
	Format string `mapstructure:"format"`
	// File is an optional path of a rotated log file written alongside stdout.
	File string `mapstructure:"file"`
	// MaxSize is the size in megabytes at which File is rotated.
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address is the address and port the server listens on (e.g., ":8080").
	Address string `mapstructure:"address"`
	// CORS controls cross-origin access for browser clients.
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// MaxAge is how long, in seconds, preflight results may be cached.
	MaxAge int `mapstructure:"max_age"`
}

// ScorecardConfig locates the scorecard artifact. Exactly one of Model and URL is set.
type ScorecardConfig struct {
	// Model is the path to a local artifact.
	Model string `mapstructure:"model"`
	// URL is the address of a remote artifact.
	URL string `mapstructure:"url"`
	// Format is csv, yaml or json; inferred from the name when empty.
	Format string `mapstructure:"format"`
	// Timeout bounds the remote fetch.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DecisionConfig defines the accept/reject policy.
type DecisionConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Midpoint  float64 `mapstructure:"midpoint"`
	Spread    float64 `mapstructure:"spread"`
}

// Validate checks the correctness of the entire application configuration
// and returns the first detected error.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}

	if err := c.Scorecard.Validate(); err != nil {
		return err
	}

	if err := c.Decision.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks that the log level and format are supported.
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logger.format: unsupported format '%s'", l.Format)
	}

	if l.File != "" && l.MaxSize <= 0 {
		return errors.New("logger.max_size: must be positive")
	}

	return nil
}

// Validate checks that the server address is set.
func (s *ServerConfig) Validate() error {
	if s.Address == "" {
		return errors.New("server.address: must be specified")
	}

	return nil
}

// Validate checks that exactly one artifact location is given and that it is usable.
func (s *ScorecardConfig) Validate() error {
	switch {
	case s.Model == "" && s.URL == "":
		return errors.New("scorecard: model or url must be specified")
	case s.Model != "" && s.URL != "":
		return errors.New("scorecard: model and url are mutually exclusive")
	}

	if s.URL != "" {
		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("scorecard.url: URL is incorrect")
		}
		if s.Timeout <= 0 {
			return errors.New("scorecard.timeout: must be positive")
		}
	}

	switch s.Format {
	case "", "csv", "yaml", "json":
	default:
		return fmt.Errorf("scorecard.format: unsupported format '%s'", s.Format)
	}

	return nil
}

// Validate checks that the decision policy is well defined.
func (d *DecisionConfig) Validate() error {
	if err := d.Policy().Validate(); err != nil {
		return fmt.Errorf("decision: %w", err)
	}
	return nil
}

// Policy converts the configuration into the evaluator policy.
func (d *DecisionConfig) Policy() score.Policy {
	return score.Policy{
		Threshold: d.Threshold,
		Midpoint:  d.Midpoint,
		Spread:    d.Spread,
	}
}

func setDefaults(v *viper.Viper) {
	defaults := score.DefaultPolicy()

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.max_age", 300)
	v.SetDefault("scorecard.model", "")
	v.SetDefault("scorecard.url", "")
	v.SetDefault("scorecard.format", "")
	v.SetDefault("scorecard.timeout", 10*time.Second)
	v.SetDefault("rules", "")
	v.SetDefault("decision.threshold", defaults.Threshold)
	v.SetDefault("decision.midpoint", defaults.Midpoint)
	v.SetDefault("decision.spread", defaults.Spread)
}

// LoadConfig loads configuration from the specified YAML file using Viper.
//
// Every key can be overridden by an environment variable named after it with a SCORECARD_
// prefix, upper case and dots replaced by underscores (e.g. SCORECARD_SERVER_ADDRESS).
//
// Returns an error if the file is missing or unreadable, has an invalid format,
// or one of the sections fails validation.
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("scorecard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
