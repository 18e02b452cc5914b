// Package config handles layered YAML configuration with .env and
// environment overrides for the account form binary.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables applied by ApplyEnv.
const (
	EnvEndpoint = "ACCOUNTFORM_ENDPOINT"
	EnvListen   = "ACCOUNTFORM_LISTEN"
	EnvLogLevel = "ACCOUNTFORM_LOG_LEVEL"
	EnvTimeout  = "ACCOUNTFORM_TIMEOUT"
)

// DefaultPaths are the config files tried by the binary, lowest priority first.
var DefaultPaths = []string{"/etc/accountform/accountform.yaml", "accountform.yaml"}

// Config holds all account form configuration.
type Config struct {
	Submit Submit `yaml:"submit"`
	Web    Web    `yaml:"web"`
	Log    Log    `yaml:"log"`
	Page   Page   `yaml:"page"`
	Theme  Theme  `yaml:"theme"`
}

// Submit configures the outbound POST.
type Submit struct {
	Endpoint string            `yaml:"endpoint" validate:"required,url"`
	Timeout  time.Duration     `yaml:"timeout" validate:"gt=0"`
	Headers  map[string]string `yaml:"headers"`
}

// Web configures the HTML front-end.
type Web struct {
	Listen          string        `yaml:"listen" validate:"required,hostname_port"`
	BasePath        string        `yaml:"base_path" validate:"omitempty,startswith=/"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// Log configures the go-kit logger.
type Log struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error none off"`
	Format string `yaml:"format" validate:"omitempty,oneof=logfmt json"`
}

// Page holds the page copy.
type Page struct {
	Title   string `yaml:"title"`
	Heading string `yaml:"heading" validate:"required"`
	// Intro is optional HTML shown under the heading. It is sanitised
	// before rendering.
	Intro string `yaml:"intro"`
	// TemplatesDir holds templates that replace the embedded ones of the
	// same name.
	TemplatesDir string `yaml:"templates_dir" validate:"omitempty,dir"`
}

// Theme selects the page palette.
type Theme struct {
	Name     string                       `yaml:"name"`
	Variant  string                       `yaml:"variant"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Submit: Submit{
			Endpoint: "http://localhost:4000/form",
			Timeout:  30 * time.Second,
		},
		Web: Web{
			Listen:          ":3000",
			BasePath:        "/",
			MaxBodyBytes:    10 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: "logfmt",
		},
		Page: Page{
			Title:   "Next.js Form with Validation",
			Heading: "Create Your Account",
		},
		Theme: Theme{
			Name: "default",
		},
	}
}

// Load reads a single YAML config file. A missing or empty file yields the
// defaults. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override the keys they set. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := decodeLayer(path, &cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func decodeLayer(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Submit.Endpoint = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Web.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Submit.Timeout = d
	}
	return nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", path)
	case "url":
		return fmt.Sprintf("%s must be an absolute URL, got %q", path, fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be positive, got %v", path, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", path, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (value %v)", path, fe.Tag(), fe.Value())
	}
}
