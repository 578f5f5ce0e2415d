package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codespace/internal/workspace"
)

type resolveOptions struct {
	source string
	json   bool
}

var resolveOpts resolveOptions

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <reference>",
	Short: "Resolve an embed reference to a vault file",
	Long: `Resolve an embed reference the way a note would and print the file it
names together with the lookup that found it.

Examples:
  codespace resolve "[[app.py#L10-L20]]" --source notes/design.md
  codespace resolve "obsidian://open?vault=notes&file=src/app.py"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(nil)
		if err != nil {
			return err
		}
		defer ws.Close()

		return runResolve(cmd.OutOrStdout(), ws, args[0], resolveOpts)
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveOpts.source, "source", "s", "", "vault path of the note containing the reference")
	resolveCmd.Flags().BoolVar(&resolveOpts.json, "json", false, "print the result as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(out io.Writer, ws *workspace.Workspace, raw string, opts resolveOptions) error {
	res := ws.Resolve(raw, opts.source)
	if opts.json {
		return writeJSON(out, res)
	}

	if !res.Found {
		fmt.Fprintf(out, "not found: %s\n", raw)
		return nil
	}
	fmt.Fprintf(out, "%s%s (%s)\n", res.File.Path, res.Reference.RangeSuffix(), res.Strategy)
	return nil
}
