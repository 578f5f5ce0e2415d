package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ScanProgressReporter reports scan progress with a progress bar.
type ScanProgressReporter struct {
	out       io.Writer
	quiet     bool
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// NewScanProgressReporter creates a reporter writing to out. A quiet
// reporter prints nothing.
func NewScanProgressReporter(out io.Writer, quiet bool) *ScanProgressReporter {
	return &ScanProgressReporter{
		out:       out,
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (r *ScanProgressReporter) OnScanStart(totalFiles int) {
	if r.quiet {
		return
	}
	r.startTime = time.Now()
	r.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Extracting symbols"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(r.out)
		}),
	)
}

func (r *ScanProgressReporter) OnFileScanned(path string) {
	if r.quiet || r.bar == nil {
		return
	}
	r.bar.Add(1)
}

func (r *ScanProgressReporter) OnScanComplete(stats scanStats) {
	if r.quiet {
		return
	}
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "✓ Scan complete: %s symbols in %s files (%.1fs)\n",
		formatNumber(stats.Symbols), formatNumber(stats.Files), time.Since(r.startTime).Seconds())
	if stats.Empty > 0 {
		fmt.Fprintf(r.out, "  Files without symbols: %s\n", formatNumber(stats.Empty))
	}
	if stats.Failed > 0 {
		fmt.Fprintf(r.out, "  Unreadable files:      %s\n", formatNumber(stats.Failed))
	}
}
