package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mvp-joe/codespace/internal/config"
	"github.com/mvp-joe/codespace/internal/workspace"
)

// vaultRoot returns the absolute vault root from --vault or CODESPACE_VAULT.
func vaultRoot() (string, error) {
	root := viper.GetString("vault")
	if root == "" {
		root = vaultDir
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve vault root: %w", err)
	}
	return abs, nil
}

// loadConfig loads the vault configuration, honouring --config.
func loadConfig(root string) (*config.Config, error) {
	loader := config.NewLoader(root)
	if cfgFile != "" {
		loader = config.NewFileLoader(root, cfgFile)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openWorkspace opens the vault selected by the global flags. mutate, when
// set, adjusts the loaded configuration before the workspace is built.
func openWorkspace(mutate func(*config.Config)) (*workspace.Workspace, error) {
	root, err := vaultRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}

	ws, err := workspace.Open(root, cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	slog.Debug("opened vault", "root", root, "extensions", cfg.Extensions().Sorted())
	return ws, nil
}
