// Package cmd implements the messmate CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/messmate/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	dir := resolveDataDir(cfg)
	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", dir)
	fmt.Printf("    Database:       %s\n", config.DatabasePath(dir))
	cur, _ := config.LookupCurrency(cfg.General.Currency)
	fmt.Printf("    Currency:       %s (%s)\n", cur.Code, cur.Symbol)
	fmt.Println()

	fmt.Println("  [Report]")
	fmt.Printf("    Format:     %s\n", cfg.Report.Format)
	if cfg.Report.OutputDir != "" {
		fmt.Printf("    Output dir: %s\n", cfg.Report.OutputDir)
	} else {
		fmt.Println("    Output dir: current directory")
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    Metrics:       %v\n", cfg.Daemon.Metrics)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  Run `messmate config init` to write a config file.")
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if config.Exists() {
		return fmt.Errorf("config file already exists at %s", config.ConfigPath())
	}
	if err := config.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	return nil
}
