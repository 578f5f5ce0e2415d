package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codespace/internal/config"
	"github.com/mvp-joe/codespace/internal/workspace"
)

type embedOptions struct {
	source        string
	maxLines      int
	noLineNumbers bool
	json          bool
}

var embedOpts embedOptions

// embedCmd represents the embed command
var embedCmd = &cobra.Command{
	Use:   "embed <reference>...",
	Short: "Render code embed references",
	Long: `Render each embed reference as a note would show it: the referenced line
window of the file with a caption. Without an explicit end line the view is
capped at max_embed_lines.

Examples:
  codespace embed "src/app.py#L10-L20"
  codespace embed "[[helper.go]]" --source notes/index.md --max-lines 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(func(cfg *config.Config) {
			if cmd.Flags().Changed("max-lines") {
				cfg.Embed.MaxEmbedLines = embedOpts.maxLines
			}
			if embedOpts.noLineNumbers {
				cfg.Embed.ShowLineNumbers = false
			}
		})
		if err != nil {
			return err
		}
		defer ws.Close()

		return runEmbed(cmd.Context(), cmd.OutOrStdout(), ws, args, embedOpts)
	},
}

func init() {
	embedCmd.Flags().StringVarP(&embedOpts.source, "source", "s", "", "vault path of the note containing the references")
	embedCmd.Flags().IntVar(&embedOpts.maxLines, "max-lines", 0, "override max_embed_lines (0 = unlimited)")
	embedCmd.Flags().BoolVar(&embedOpts.noLineNumbers, "no-line-numbers", false, "hide the line number gutter")
	embedCmd.Flags().BoolVar(&embedOpts.json, "json", false, "print views as JSON")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(ctx context.Context, out io.Writer, ws *workspace.Workspace, refs []string, opts embedOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for i, raw := range refs {
		view, ok, err := ws.Embed(ctx, raw, opts.source)
		if err != nil {
			return fmt.Errorf("failed to render %q: %w", raw, err)
		}

		if opts.json {
			if !ok {
				if err := writeJSON(out, map[string]any{"reference": raw, "found": false}); err != nil {
					return err
				}
				continue
			}
			if err := writeJSON(out, view); err != nil {
				return err
			}
			continue
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		if !ok {
			fmt.Fprintf(out, "not found: %s\n", raw)
			continue
		}
		writeView(out, view)
	}
	return nil
}
