package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/theirongolddev/messmate/internal/report"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagReportFormat string
	flagReportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the monthly report of the current cycle",
	Long:  "Export the current cycle as an Excel workbook (summary and daily log sheets)\nor as plain text. Use -o - to write to stdout.",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportFormat, "format", "f", "", "xlsx or text (default from config)")
	reportCmd.Flags().StringVarP(&flagReportOutput, "output", "o", "", "Output file (default MessMate_Report_<start>.<ext> in the report directory)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	format := flagReportFormat
	if format == "" {
		format = a.cfg.Report.Format
	}
	var (
		write func(io.Writer, report.Payload) error
		ext   string
	)
	switch format {
	case "xlsx":
		write, ext = report.WriteXLSX, "xlsx"
	case "text", "txt":
		write, ext = report.WriteText, "txt"
	default:
		return fmt.Errorf("unknown report format %q (want xlsx or text)", format)
	}

	p, err := a.tracker.Report(a.tracker.Now())
	if err != nil {
		return err
	}
	p.Currency = a.currency

	if flagReportOutput == "-" {
		return write(os.Stdout, p)
	}

	path := flagReportOutput
	if path == "" {
		path = filepath.Join(a.cfg.Report.OutputDir, report.FileName(p, ext))
	}
	progress("Writing %s report...", format)
	n, err := writeFile(path, func(w io.Writer) error { return write(w, p) })
	if err != nil {
		return err
	}
	fmt.Printf("  Report written to %s (%s)\n", path, humanize.Bytes(uint64(n)))
	return nil
}
