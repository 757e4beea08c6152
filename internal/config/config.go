// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for promptsmith.
type Config struct {
	Model        string        `mapstructure:"model" yaml:"model"`
	APIKey       string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile      string        `mapstructure:"log_file" yaml:"log_file"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheSize    int           `mapstructure:"cache_size" yaml:"cache_size"`
	RateLimit    float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	OutputDir    string        `mapstructure:"output_dir" yaml:"output_dir"`
	TemplatesDir string        `mapstructure:"templates_dir" yaml:"templates_dir"`
	Offline      bool          `mapstructure:"offline" yaml:"offline"`
	Journal      bool          `mapstructure:"journal" yaml:"journal"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Model:     "gemini-2.5-flash",
		LogLevel:  "info",
		Timeout:   2 * time.Minute,
		CacheSize: 32,
		OutputDir: "prompts",
		Journal:   true,
	}
}

// envBindings maps config keys to the variables that can set them, in
// priority order.
var envBindings = map[string][]string{
	"model":         {"PROMPTSMITH_MODEL"},
	"api_key":       {"PROMPTSMITH_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"log_level":     {"PROMPTSMITH_LOG_LEVEL"},
	"log_file":      {"PROMPTSMITH_LOG_FILE"},
	"timeout":       {"PROMPTSMITH_TIMEOUT"},
	"cache_size":    {"PROMPTSMITH_CACHE_SIZE"},
	"rate_limit":    {"PROMPTSMITH_RATE_LIMIT"},
	"output_dir":    {"PROMPTSMITH_OUTPUT_DIR"},
	"templates_dir": {"PROMPTSMITH_TEMPLATES_DIR"},
	"offline":       {"PROMPTSMITH_OFFLINE"},
	"journal":       {"PROMPTSMITH_JOURNAL"},
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars (.env included) > project config > XDG global config > defaults
func Load(flags ...*pflag.FlagSet) (*Config, error) {
	// .env never overrides variables that are already set.
	if fileExists(".env") {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	v := New()

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	for _, fs := range flags {
		BindFlags(v, fs)
	}
	return Unmarshal(v)
}

// BindFlags binds every flag whose name matches a config key, with dashes
// read as underscores (--log-level sets log_level). Only flags the user
// changed take precedence over env and files.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := envBindings[key]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
}

// New returns a viper instance with defaults and environment bindings but
// no config files. Commands bind their flags onto it before Unmarshal.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("promptsmith")

	d := Defaults()
	v.SetDefault("model", d.Model)
	v.SetDefault("api_key", "")
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("templates_dir", "")
	v.SetDefault("offline", false)
	v.SetDefault("journal", d.Journal)

	v.SetEnvPrefix("PROMPTSMITH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, envs := range envBindings {
		// BindEnv only fails on an empty key.
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

// Unmarshal decodes and validates the settings held by v.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %g", c.RateLimit)
	}
	return nil
}

// UseOffline reports whether the offline gateway should be used: either
// requested explicitly or no API key is available.
func (c *Config) UseOffline() bool {
	return c.Offline || c.APIKey == ""
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns ~/.config/promptsmith/promptsmith.yml or
// $XDG_CONFIG_HOME/promptsmith/promptsmith.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "promptsmith", "promptsmith.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "promptsmith", "promptsmith.yml")
}

// ProjectPath returns ./promptsmith.yml in the current working directory.
func ProjectPath() string {
	return "promptsmith.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	// The file may hold an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
