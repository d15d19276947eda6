// Package cli formats command output for the routelab binary.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/itchan-dev/routelab/frontend/internal/static"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// WriteReport prints one row per prerendered page. Terminals get a rounded
// table, anything else a plain ASCII one.
func WriteReport(w io.Writer, report static.Report) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.SetTitle("build " + report.BuildId)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	tw.AppendHeader(table.Row{"Path", "Route", "Size", "Duration"})

	var total int
	for _, e := range report.Entries {
		total += e.Bytes
		tw.AppendRow(table.Row{e.Path, e.Pattern, formatBytes(e.Bytes), formatDuration(e.Duration)})
	}
	if len(report.Entries) == 0 {
		tw.AppendRow(table.Row{"-", "(no static pages)", "-", "-"})
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d pages", len(report.Entries)), "", formatBytes(total), formatDuration(report.Duration)})

	_ = tw.Render()
	return nil
}

func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f kB", float64(n)/1024)
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
