// Package config provides configuration types, defaults and loading for initflags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/initflags/internal/log"
)

// Output formats accepted by the CLI.
const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// DefaultConfigPath is the project-local config file, checked before the user config.
const DefaultConfigPath = ".initflags/config.yaml"

// EnvPrefix is the prefix for environment overrides, e.g. INITFLAGS_OUTPUT=yaml.
const EnvPrefix = "INITFLAGS"

// Config holds all configuration options for initflags.
type Config struct {
	// InitFlags are NAME=VALUE tokens applied before any command line tokens.
	InitFlags []string `mapstructure:"init_flags"`
	Output    string   `mapstructure:"output"`   // "text" (default), "yaml" or "json"
	LogFile   string   `mapstructure:"log_file"` // Debug log path; empty logs to stderr when debug is on
	Debug     bool     `mapstructure:"debug"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		InitFlags: []string{},
		Output:    OutputText,
	}
}

// Validate checks the config for values the CLI cannot act on.
func Validate(cfg Config) error {
	switch cfg.Output {
	case OutputText, OutputYAML, OutputJSON:
	default:
		return fmt.Errorf("output: must be %q, %q or %q, got %q", OutputText, OutputYAML, OutputJSON, cfg.Output)
	}
	for i, token := range cfg.InitFlags {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("init_flags %d: token is empty", i)
		}
	}
	return nil
}

// Tokens returns the tokens to load: config tokens first, then command line
// tokens, so a command line token overrides the same name from the config.
func Tokens(cfg Config, args []string) []string {
	tokens := make([]string, 0, len(cfg.InitFlags)+len(args))
	tokens = append(tokens, cfg.InitFlags...)
	tokens = append(tokens, args...)
	return tokens
}

// Load reads configuration into v and returns it with the path of the file used.
// Lookup order when cfgFile is empty:
//  1. .initflags/config.yaml (current directory)
//  2. ~/.config/initflags/config.yaml (user config)
//
// A missing config file is not an error; defaults and environment apply.
func Load(v *viper.Viper, cfgFile string) (Config, string, error) {
	defaults := Defaults()
	v.SetDefault("init_flags", defaults.InitFlags)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("debug", defaults.Debug)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(DefaultConfigPath); err == nil {
		v.SetConfigFile(DefaultConfigPath)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "initflags"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.ErrorErr(log.CatConfig, "Failed to read config", err, "path", cfgFile)
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}

	log.Debug(log.CatConfig, "Config loaded", "path", v.ConfigFileUsed(), "init_flags", len(cfg.InitFlags))
	return cfg, v.ConfigFileUsed(), nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# initflags configuration

# Init flag tokens applied on every run, before command line tokens.
# Names may carry the INIT_ prefix. Only the exact value "true" enables a flag.
init_flags: []
#  - gd_core=true                          # also enables gd_controller and gd_hci
#  - gatt_robust_caching=true
#  - logging_debug_enabled_for_tags=flags,config
#  - logging_debug_disabled_for_tags=cmd   # disabled tags always win

# Output format: "text", "yaml" or "json"
output: text

# Debug log file (empty logs to stderr when --debug is set)
# log_file: /tmp/initflags.log
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
