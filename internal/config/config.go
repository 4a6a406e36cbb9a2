// Package config resolves the TrustGraph client configuration.
//
// The backend address is taken from the first source that sets it:
//
//  1. the --api-url flag
//  2. the TRUSTGRAPH_API_URL environment variable
//  3. the VITE_API_URL environment variable (shared with the web front-end)
//  4. api_url in the TOML config file
//  5. http://localhost:8000
//
// The config file lives at $XDG_CONFIG_HOME/trustgraph/config.toml, falling
// back to ~/.config/trustgraph/config.toml:
//
//	api_url   = "https://api.trustgraph.dev"
//	timeout   = "30s"
//	log_level = "debug"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/trustgraph/pkg/api"
)

const appName = "trustgraph"

// Environment variables consulted by Resolve.
const (
	EnvAPIURL     = "TRUSTGRAPH_API_URL"
	EnvViteAPIURL = "VITE_API_URL"
)

// Where a setting came from.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL string `toml:"api_url" validate:"required,url"`
	// Timeout is the per-request timeout; zero means none.
	Timeout Duration `toml:"timeout"`
	// LogLevel is a charmbracelet/log level name.
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error fatal"`

	// APIURLSource records which source set APIURL.
	APIURLSource string `toml:"-"`
	// Path is the config file that was read, "" if none.
	Path string `toml:"-"`
}

// Duration is a time.Duration that decodes from a Go duration string.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Sources are the inputs to Resolve.
type Sources struct {
	Path    string              // Config file; "" uses DefaultPath and tolerates its absence
	FlagURL string              // Value of --api-url, "" when unset
	Getenv  func(string) string // Environment lookup; nil uses os.Getenv
}

// Resolve builds the configuration from s.
func Resolve(s Sources) (Config, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Config{APIURL: api.DefaultBaseURL, APIURLSource: SourceDefault, LogLevel: "info"}

	path, explicit := s.Path, s.Path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.load(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	switch {
	case s.FlagURL != "":
		cfg.APIURL, cfg.APIURLSource = s.FlagURL, SourceFlag
	case getenv(EnvAPIURL) != "":
		cfg.APIURL, cfg.APIURLSource = getenv(EnvAPIURL), SourceEnv
	case getenv(EnvViteAPIURL) != "":
		cfg.APIURL, cfg.APIURLSource = getenv(EnvViteAPIURL), SourceEnv
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, validationError(err)
	}
	if cfg.Timeout.Duration < 0 {
		return Config{}, fmt.Errorf("config: timeout must not be negative, got %s", cfg.Timeout)
	}
	return cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their TOML key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be an absolute URL, got %q", e.Field(), e.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s, got %q", e.Field(), e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func (c *Config) load(path string) error {
	var file Config
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	c.Path = path
	if file.APIURL != "" {
		c.APIURL, c.APIURLSource = file.APIURL, SourceFile
	}
	if file.Timeout.Duration != 0 {
		c.Timeout = file.Timeout
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DefaultPath returns the config file location using the XDG convention.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
