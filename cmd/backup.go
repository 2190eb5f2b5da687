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

var flagBackupOutput string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a JSON snapshot of all data",
	Long:  "Write a JSON snapshot of the profile, current cycle, history and settings.\nUse -o - to write to stdout.",
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all data with a JSON snapshot",
	Long:  "Replace all data with a snapshot written by `messmate backup`.\nThe file is validated first; nothing changes if it is rejected. Use - to read stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	backupCmd.Flags().StringVarP(&flagBackupOutput, "output", "o", "", "Output file (default messmate_backup_<millis>.json in the report directory)")
	restoreCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackup(_ *cobra.Command, _ []string) error {
	a, err := openSetUpApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if flagBackupOutput == "-" {
		return a.tracker.Backup(os.Stdout)
	}

	path := flagBackupOutput
	if path == "" {
		path = filepath.Join(a.cfg.Report.OutputDir, report.BackupFileName(a.tracker.Now()))
	}
	n, err := writeFile(path, a.tracker.Backup)
	if err != nil {
		return err
	}
	fmt.Printf("  Backup written to %s (%s)\n", path, humanize.Bytes(uint64(n)))
	return nil
}

func runRestore(_ *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening backup: %w", err)
		}
		defer f.Close()
		r = f
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if state := a.tracker.State(); state.IsSetUp() && !flagYes && args[0] != "-" {
		ok, err := confirm("Replace all current data with " + args[0] + "?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Cancelled.")
			return nil
		}
	}

	if err := a.tracker.Restore(r); err != nil {
		return fmt.Errorf("restore failed, data unchanged: %w", err)
	}
	st := a.tracker.State()
	fmt.Printf("  Restored %s's data: cycle %s → %s, %d closed cycles\n",
		st.Profile.Name, st.Current.StartDate, st.Current.EndDate, len(st.History))
	return nil
}

// writeFile creates path and its directory and hands the file to write.
// A failed write removes the partial file.
func writeFile(path string, write func(io.Writer) error) (int64, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	cw := &countingWriter{w: f}
	if err := write(cw); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", path, err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
