package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	vaultDir string
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codespace",
	Short: "Codespace - code files inside a notes vault",
	Long: `Codespace treats a notes vault as a lightweight source workspace.

It resolves code embed references written in notes, renders the referenced
line windows, and extracts symbol outlines from code files. The same
operations are available to LLM assistants through the MCP server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <vault>/.codespace/config.yml)")
	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault", ".", "vault root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// CODESPACE_VAULT and CODESPACE_VERBOSE work like the flags
	viper.SetEnvPrefix("CODESPACE")
	viper.BindPFlag("vault", rootCmd.PersistentFlags().Lookup("vault"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindEnv("vault")
	viper.BindEnv("verbose")
}

// initLogging installs the default slog logger on stderr.
func initLogging() {
	slog.SetDefault(newLogger(os.Stderr, viper.GetBool("verbose")))
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
