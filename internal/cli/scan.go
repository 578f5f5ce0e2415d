package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codespace/internal/symbols"
	"github.com/mvp-joe/codespace/internal/workspace"
)

// scanStats summarizes a scan.
type scanStats struct {
	Files   int            `json:"files"`
	Symbols int            `json:"symbols"`
	Empty   int            `json:"empty"`
	Failed  int            `json:"failed"`
	ByKind  map[string]int `json:"by_kind"`
}

var (
	scanQuiet bool
	scanJSON  bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract symbols from every managed file",
	Long: `Run symbol extraction over every managed code file in the vault and
print totals per symbol kind. Useful to check which files yield an outline.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(nil)
		if err != nil {
			return err
		}
		defer ws.Close()

		reporter := NewScanProgressReporter(os.Stderr, scanQuiet || scanJSON)
		stats, err := runScan(cmd.Context(), ws, reporter)
		if err != nil {
			return err
		}
		if scanJSON {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		writeScanStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "hide the progress bar")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print totals as JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(ctx context.Context, ws *workspace.Workspace, reporter *ScanProgressReporter) (scanStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	stats := scanStats{ByKind: make(map[string]int)}
	files := ws.Files()
	reporter.OnScanStart(len(files))

	for _, entry := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		o, err := ws.Outline(ctx, entry.Path)
		if err != nil {
			slog.Debug("scan skipped file", "file", entry.Path, "error", err)
			stats.Failed++
			reporter.OnFileScanned(entry.Path)
			continue
		}

		stats.Files++
		stats.Symbols += len(o.Symbols)
		if len(o.Symbols) == 0 {
			stats.Empty++
		}
		for _, sym := range o.Symbols {
			stats.ByKind[string(sym.Kind)]++
		}
		reporter.OnFileScanned(entry.Path)
	}

	reporter.OnScanComplete(stats)
	return stats, nil
}

func writeScanStats(out io.Writer, stats scanStats) {
	for _, kind := range []symbols.Kind{symbols.KindClass, symbols.KindFunction, symbols.KindMethod} {
		fmt.Fprintf(out, "%-10s %s\n", kind, formatNumber(stats.ByKind[string(kind)]))
	}
	fmt.Fprintf(out, "%-10s %s\n", "files", formatNumber(stats.Files))
}
