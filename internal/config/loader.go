package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given vault root.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file
// instead of searching <root>/.codespace.
func NewFileLoader(rootDir, configFile string) Loader {
	return &loader{
		rootDir:    rootDir,
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CODESPACE_*)
// 2. Config file (.codespace/config.yml or .codespace/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".codespace"))
	}

	// CODESPACE_EMBED_MAX_EMBED_LINES and friends
	v.SetEnvPrefix("CODESPACE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("vault.name")
	v.BindEnv("embed.managed_extensions")
	v.BindEnv("embed.max_embed_lines")
	v.BindEnv("embed.show_line_numbers")
	v.BindEnv("embed.debounce_ms")
	v.BindEnv("embed.retry_delay_ms")
	v.BindEnv("embed.source_retries")
	v.BindEnv("outline.cache_size")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults + env vars apply.
		// An explicit --config path that does not exist is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("vault.name", defaults.Vault.Name)
	v.SetDefault("vault.ignore", defaults.Vault.Ignore)
	v.SetDefault("vault.internal_schemes", defaults.Vault.InternalSchemes)

	v.SetDefault("embed.managed_extensions", defaults.Embed.ManagedExtensions)
	v.SetDefault("embed.max_embed_lines", defaults.Embed.MaxEmbedLines)
	v.SetDefault("embed.show_line_numbers", defaults.Embed.ShowLineNumbers)
	v.SetDefault("embed.debounce_ms", defaults.Embed.DebounceMs)
	v.SetDefault("embed.retry_delay_ms", defaults.Embed.RetryDelayMs)
	v.SetDefault("embed.source_retries", defaults.Embed.SourceRetries)

	v.SetDefault("outline.cache_size", defaults.Outline.CacheSize)
}

// LoadConfigFromDir loads configuration from a specific vault root.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
