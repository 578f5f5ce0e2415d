package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codespace/internal/workspace"
)

var filesJSON bool

// filesCmd represents the files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List managed code files in the vault",
	Long: `List every file whose extension is managed, one per line as
"name (folder)". Files at the vault root are listed by name only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(nil)
		if err != nil {
			return err
		}
		defer ws.Close()

		return runFiles(cmd.OutOrStdout(), ws, filesJSON)
	},
}

func init() {
	filesCmd.Flags().BoolVar(&filesJSON, "json", false, "print the list as JSON")
	rootCmd.AddCommand(filesCmd)
}

func runFiles(out io.Writer, ws *workspace.Workspace, asJSON bool) error {
	entries := ws.Files()
	if asJSON {
		if entries == nil {
			entries = []workspace.FileEntry{}
		}
		return writeJSON(out, entries)
	}

	for _, e := range entries {
		fmt.Fprintln(out, e.Label())
	}
	return nil
}
