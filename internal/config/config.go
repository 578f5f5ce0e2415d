// Package config provides configuration loading for codespace.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (CODESPACE_*)
//  2. Vault config (<vault>/.codespace/config.yml)
//  3. Built-in defaults
//
// Nested fields map to environment variables with underscores, e.g.
// embed.max_embed_lines is CODESPACE_EMBED_MAX_EMBED_LINES.
package config

import (
	"path/filepath"
	"time"
)

// Config represents the complete codespace configuration.
// It can be loaded from .codespace/config.yml with environment variable overrides.
type Config struct {
	Vault   VaultConfig   `yaml:"vault" mapstructure:"vault"`
	Embed   EmbedConfig   `yaml:"embed" mapstructure:"embed"`
	Outline OutlineConfig `yaml:"outline" mapstructure:"outline"`
}

// VaultConfig describes the vault (the folder tree served as a namespace).
type VaultConfig struct {
	Name            string   `yaml:"name" mapstructure:"name"`                         // vault name used in obsidian:// links
	Ignore          []string `yaml:"ignore" mapstructure:"ignore"`                     // glob patterns hidden from the namespace
	InternalSchemes []string `yaml:"internal_schemes" mapstructure:"internal_schemes"` // URL schemes that address this vault
}

// EmbedConfig configures code embeds.
type EmbedConfig struct {
	ManagedExtensions string `yaml:"managed_extensions" mapstructure:"managed_extensions"` // comma-separated, case-insensitive
	MaxEmbedLines     int    `yaml:"max_embed_lines" mapstructure:"max_embed_lines"`       // 0 = unlimited
	ShowLineNumbers   bool   `yaml:"show_line_numbers" mapstructure:"show_line_numbers"`
	DebounceMs        int    `yaml:"debounce_ms" mapstructure:"debounce_ms"`       // quiet period per embed slot
	RetryDelayMs      int    `yaml:"retry_delay_ms" mapstructure:"retry_delay_ms"` // wait before retrying source path discovery
	SourceRetries     int    `yaml:"source_retries" mapstructure:"source_retries"`
}

// OutlineConfig configures the symbol outline.
type OutlineConfig struct {
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"` // extraction results kept in memory
}

// DefaultManagedExtensions is the extension list managed out of the box.
const DefaultManagedExtensions = "py, c, cpp, h, hpp, js, ts, jsx, tsx, json, mjs, cjs, css, scss, sass, less, html, htm, rs, go, java, sql, php, rb, sh, yaml, xml"

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			Name: "",
			Ignore: []string{
				".git/**",
				".obsidian/**",
				".trash/**",
				".codespace/**",
				"node_modules/**",
			},
			InternalSchemes: []string{"obsidian"},
		},
		Embed: EmbedConfig{
			ManagedExtensions: DefaultManagedExtensions,
			MaxEmbedLines:     30,
			ShowLineNumbers:   true,
			DebounceMs:        50,
			RetryDelayMs:      100,
			SourceRetries:     3,
		},
		Outline: OutlineConfig{
			CacheSize: 256,
		},
	}
}

// Extensions returns the parsed managed extension allow-list.
func (c *Config) Extensions() ExtensionSet {
	return ParseExtensions(c.Embed.ManagedExtensions)
}

// VaultName returns the configured vault name, falling back to the base
// name of rootDir.
func (c *Config) VaultName(rootDir string) string {
	if c.Vault.Name != "" {
		return c.Vault.Name
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return filepath.Base(rootDir)
	}
	return filepath.Base(abs)
}

// Debounce returns the embed debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Embed.DebounceMs) * time.Millisecond
}

// RetryDelay returns the delay between source path retries.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Embed.RetryDelayMs) * time.Millisecond
}
