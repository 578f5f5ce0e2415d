package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codespace/internal/workspace"
)

var watchOutline string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow file changes in the vault",
	Long: `Watch the vault for saved, created and removed code files and print each
batch of changes. With --outline, the outline of that file is printed again
whenever it changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(nil)
		if err != nil {
			return err
		}
		defer ws.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", ws.Vault().Root())
		return runWatch(ctx, cmd.OutOrStdout(), ws, watchOutline)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchOutline, "outline", "", "keep printing the outline of this file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, out io.Writer, ws *workspace.Workspace, outlineFile string) error {
	if outlineFile != "" {
		o, err := ws.Outline(ctx, outlineFile)
		if err != nil {
			return err
		}
		writeOutline(out, o)
	}

	return ws.Watch(ctx, func(paths []string) {
		for _, p := range paths {
			fmt.Fprintf(out, "changed: %s\n", p)
		}
		if outlineFile == "" || !contains(paths, outlineFile) {
			return
		}
		o, err := ws.Outline(ctx, outlineFile)
		if err != nil {
			fmt.Fprintf(out, "outline: %v\n", err)
			return
		}
		writeOutline(out, o)
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
