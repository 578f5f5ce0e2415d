package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codespace/internal/workspace"
)

type outlineOptions struct {
	symbol string
	json   bool
}

var outlineOpts outlineOptions

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Show the symbol outline of a code file",
	Long: `Show the functions, classes and methods declared in a code file of the
vault. With --symbol, print where that symbol's line starts instead.

Examples:
  codespace outline src/app.py
  codespace outline src/app.py --symbol main`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(nil)
		if err != nil {
			return err
		}
		defer ws.Close()

		return runOutline(cmd.Context(), cmd.OutOrStdout(), ws, args[0], outlineOpts)
	},
}

func init() {
	outlineCmd.Flags().StringVar(&outlineOpts.symbol, "symbol", "", "locate this symbol")
	outlineCmd.Flags().BoolVar(&outlineOpts.json, "json", false, "print the result as JSON")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(ctx context.Context, out io.Writer, ws *workspace.Workspace, file string, opts outlineOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.symbol != "" {
		sym, pos, err := ws.Symbol(ctx, file, opts.symbol)
		if err != nil {
			return err
		}
		if opts.json {
			return writeJSON(out, map[string]any{"symbol": sym, "position": pos})
		}
		fmt.Fprintf(out, "%s %s %s:%d (offset %d)\n", sym.Kind, sym.Name, file, pos.Line, pos.Offset)
		return nil
	}

	o, err := ws.Outline(ctx, file)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(out, o)
	}
	writeOutline(out, o)
	return nil
}
