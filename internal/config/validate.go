package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyExtensions indicates the managed extension list has no entries
	ErrEmptyExtensions = errors.New("empty managed extensions")

	// ErrInvalidMaxEmbedLines indicates a negative embed line cap
	ErrInvalidMaxEmbedLines = errors.New("invalid max embed lines")

	// ErrInvalidDelay indicates a negative debounce or retry setting
	ErrInvalidDelay = errors.New("invalid delay")

	// ErrInvalidIgnorePattern indicates a vault ignore glob that does not compile
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidCacheSize indicates a negative outline cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateVault(&cfg.Vault); err != nil {
		errs = append(errs, err)
	}

	if err := validateEmbed(&cfg.Embed); err != nil {
		errs = append(errs, err)
	}

	if cfg.Outline.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size cannot be negative, got %d", ErrInvalidCacheSize, cfg.Outline.CacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateVault(cfg *VaultConfig) error {
	var errs []error

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidIgnorePattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateEmbed(cfg *EmbedConfig) error {
	var errs []error

	if len(ParseExtensions(cfg.ManagedExtensions)) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one extension required", ErrEmptyExtensions))
	}

	if cfg.MaxEmbedLines < 0 {
		errs = append(errs, fmt.Errorf("%w: max_embed_lines cannot be negative, got %d", ErrInvalidMaxEmbedLines, cfg.MaxEmbedLines))
	}

	if cfg.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDelay, cfg.DebounceMs))
	}

	if cfg.RetryDelayMs < 0 {
		errs = append(errs, fmt.Errorf("%w: retry_delay_ms cannot be negative, got %d", ErrInvalidDelay, cfg.RetryDelayMs))
	}

	if cfg.SourceRetries < 0 {
		errs = append(errs, fmt.Errorf("%w: source_retries cannot be negative, got %d", ErrInvalidDelay, cfg.SourceRetries))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// A single error is returned as-is so errors.Is keeps working.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
