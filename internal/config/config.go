// Package config resolves passkeep settings from defaults, a YAML file,
// a .env file and the environment. Later sources take precedence; command
// line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hengadev/errsx"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/forest6511/passkeep/internal/logging"
	"github.com/forest6511/passkeep/pkg/passgen"
	"github.com/forest6511/passkeep/pkg/vault"
)

// Environment variables
const (
	EnvConfig    = "PASSKEEP_CONFIG"
	EnvVault     = "PASSKEEP_VAULT"
	EnvLength    = "PASSKEEP_LENGTH"
	EnvLogLevel  = "PASSKEEP_LOG_LEVEL"
	EnvLogFormat = "PASSKEEP_LOG_FORMAT"
)

// File names
const (
	DefaultEnvFile    = ".env"
	DefaultConfigDir  = "passkeep"
	DefaultConfigFile = "config.yaml"
)

// Config holds runtime settings.
type Config struct {
	// VaultPath is the backing JSON file.
	VaultPath string `yaml:"vault_path"`
	// PasswordLength is the length used when none is asked for, 12..18.
	PasswordLength int `yaml:"password_length"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// ConfigFile is an explicit YAML file. It must exist when set.
	ConfigFile string
	// EnvFile is read if present. Defaults to ".env".
	EnvFile string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		VaultPath:      "./" + vault.DefaultFileName,
		PasswordLength: passgen.DefaultLength,
		LogLevel:       "warn",
		LogFormat:      logging.FormatText,
	}
}

// Load applies defaults, the YAML file, the .env file and the environment.
// The result is not validated: the caller applies flag overrides first and
// then calls Validate.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	path, required := resolveConfigFile(opts.ConfigFile)
	if path != "" {
		if err := cfg.mergeFile(path, required); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile exports the variables of path unless they are already set.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load env file %s: %w", path, err)
	}
	return nil
}

// resolveConfigFile picks the YAML file to read and whether it must exist.
func resolveConfigFile(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p, true
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, DefaultConfigDir, DefaultConfigFile), false
}

func (c *Config) mergeFile(path string, required bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("config: failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(content, c); err != nil {
		return fmt.Errorf("config: failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v, ok := os.LookupEnv(EnvVault); ok && v != "" {
		c.VaultPath = v
	}
	if v, ok := os.LookupEnv(EnvLength); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s has invalid integer %q: %w", EnvLength, v, err)
		}
		c.PasswordLength = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate reports every invalid setting at once. The returned error is an
// errsx.Map keyed by YAML field name.
func (c *Config) Validate() error {
	errs := errsx.Map{}

	if strings.TrimSpace(c.VaultPath) == "" {
		errs.Set("vault_path", errors.New("vault path must not be empty"))
	}

	if err := passgen.ValidateLength(c.PasswordLength); err != nil {
		errs.Set("password_length", err)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.Set("log_level", err)
	}

	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs.Set("log_format", fmt.Errorf("log format must be %s or %s, got %q", logging.FormatText, logging.FormatJSON, c.LogFormat))
	}

	return errs.AsError()
}
