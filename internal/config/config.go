// Package config loads application settings from YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SLOTNORM_SERVER_PORT.
const EnvPrefix = "SLOTNORM"

// LogConfig configures the structured logger.
type LogConfig struct {
	// File is the log destination; empty means stdout.
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
	Async bool   `mapstructure:"async"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	MaxRequestSize int           `mapstructure:"max_request_size" validate:"gt=0"`
	Concurrency    int           `mapstructure:"concurrency" validate:"gte=0"`
	WarmUp         bool          `mapstructure:"warm_up"`
	// WatchMapping reloads the mapping file when it changes.
	WatchMapping bool `mapstructure:"watch_mapping"`
}

// BatchConfig configures JSON Lines processing.
type BatchConfig struct {
	Workers     int `mapstructure:"workers" validate:"gte=0"`
	BatchSize   int `mapstructure:"batch_size" validate:"gte=0"`
	MaxLineSize int `mapstructure:"max_line_size" validate:"gte=0"`
}

// Config is the root configuration.
type Config struct {
	Log LogConfig `mapstructure:"log"`
	// NotMentioned is "drop" or "keep".
	NotMentioned string `mapstructure:"not_mentioned" validate:"oneof=drop keep"`
	// MappingFile is a YAML file with slot_names and substitutions.
	MappingFile string `mapstructure:"mapping_file"`
	// SlotNames are merged over the mapping file's entries.
	SlotNames     map[string]string     `mapstructure:"slot_names"`
	Substitutions []domain.Substitution `mapstructure:"substitutions" validate:"dive"`
	Server        ServerConfig          `mapstructure:"server"`
	Batch         BatchConfig           `mapstructure:"batch"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.json", false)
	v.SetDefault("log.async", true)
	v.SetDefault("not_mentioned", "drop")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_request_size", 10*1024*1024)
	v.SetDefault("server.concurrency", 0)
	v.SetDefault("server.warm_up", true)
	v.SetDefault("server.watch_mapping", false)
	v.SetDefault("batch.workers", 0)
	v.SetDefault("batch.batch_size", 256)
	v.SetDefault("batch.max_line_size", 1024*1024)
}

// Load reads configuration into a Config. A nil v uses a fresh viper
// instance; path may be empty, in which case only defaults and environment
// variables apply.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.NotMentioned = strings.ToLower(strings.TrimSpace(cfg.NotMentioned))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Policy returns the configured not-mentioned policy.
func (c *Config) Policy() domain.NotMentionedPolicy {
	p, _ := domain.ParseNotMentionedPolicy(c.NotMentioned)
	return p
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationErrors collects every invalid field of a Config.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

var validate = validator.New()

// Validate checks cfg and returns ValidationErrors on failure.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Namespace(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return fmt.Sprintf("failed on %q", fe.Tag())
}
