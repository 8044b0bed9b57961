package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "FGIT_"

type Config struct {
	Git     GitConfig     `koanf:"git"`
	GitLab  GitLabConfig  `koanf:"gitlab"`
	Update  UpdateConfig  `koanf:"update"`
	Push    PushConfig    `koanf:"push"`
	Tracing TracingConfig `koanf:"tracing"`
	Metrics MetricsConfig `koanf:"metrics"`
	Logging LoggingConfig `koanf:"logging"`
}

type GitConfig struct {
	Binary string `koanf:"binary" validate:"required"`
}

type GitLabConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	// Timeout of zero means the request blocks until the server answers.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

type UpdateConfig struct {
	// RepoDir is the fgit source checkout. Empty means the directory of the running binary.
	RepoDir      string   `koanf:"repo_dir"`
	Remote       string   `koanf:"remote" validate:"required"`
	Branch       string   `koanf:"branch" validate:"required"`
	BuildCommand []string `koanf:"build_command" validate:"min=1,dive,required"`
}

type PushConfig struct {
	Remote string `koanf:"remote" validate:"required"`
}

type TracingConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	// Textfile, when set, receives the invocation's metrics in Prometheus text format.
	Textfile string `koanf:"textfile"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Git: GitConfig{
			Binary: "git",
		},
		GitLab: GitLabConfig{
			BaseURL: "https://gitlab.com",
		},
		Update: UpdateConfig{
			Remote: "origin",
			Branch: "main",
		},
		Push: PushConfig{
			Remote: "origin",
		},
		Tracing: TracingConfig{
			SamplingRate: 1,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// defaultBuildCommand is applied after unmarshaling so a configured list
// replaces it instead of being merged into it element by element.
var defaultBuildCommand = []string{"go", "build", "-o", "fgit", "./cmd/fgit"}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fgit", "fgit.yaml")
}

// Load reads configuration from YAML file + environment variables.
// Loading order: defaults → YAML file → env vars (later overrides earlier).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	cfg := Defaults()

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			// Only fail if the file was explicitly specified and can't be read
			return nil, fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	} else if p := DefaultPath(); p != "" {
		// The per-user file is optional, but a broken one is reported
		if _, statErr := os.Stat(p); statErr == nil {
			if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
				slog.Warn("ignoring unreadable config file", "path", p, "error", err)
			}
		}
	}

	// FGIT_GITLAB__BASE_URL → gitlab.base_url
	// Double underscore (__) separates nesting levels.
	// List values are comma separated: FGIT_UPDATE__BUILD_COMMAND=make,install
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if len(cfg.Update.BuildCommand) == 0 {
		cfg.Update.BuildCommand = append([]string(nil), defaultBuildCommand...)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = newValidator().validate

type configValidator struct {
	v *validator.Validate
}

func newValidator() *configValidator {
	v := validator.New()
	// Report fields by their config key rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &configValidator{v: v}
}

func (c *configValidator) validate(cfg *Config) error {
	err := c.v.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, formatValidationError(e))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func formatValidationError(e validator.FieldError) string {
	key := e.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required (set %s%s)", key, EnvPrefix, envKey(key))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, e.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s element(s)", key, e.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", key)
	default:
		return fmt.Sprintf("%s failed %s validation", key, e.Tag())
	}
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}
