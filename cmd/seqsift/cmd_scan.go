package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/modules"
	"github.com/codewithboateng/seqsift/internal/reporting"
	"github.com/codewithboateng/seqsift/internal/scan"
)

var (
	scanOut         string
	scanPacks       []string
	scanDisable     []string
	scanOnly        []string
	scanMaxFilesize int64
	scanWorkers     int
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir...]",
	Short: "Scan directories and record which tool produced each file",
	Long: `Walks the given directories (or scan.sources from config), probes every
candidate file against the registered search patterns, stores the run in
SQLite and writes JSON and HTML reports.`,
	Args: cobra.ArbitraryArgs,
	RunE: runScanCmd,
}

func init() {
	scanCmd.Flags().StringVar(&scanOut, "out", "", "Output directory for reports")
	scanCmd.Flags().StringSliceVar(&scanPacks, "pack", nil, "Extra search pattern pack (YAML), repeatable")
	scanCmd.Flags().StringSliceVar(&scanDisable, "disable", nil, "Disable a module by id, repeatable")
	scanCmd.Flags().StringSliceVar(&scanOnly, "only", nil, "Restrict detection to these module ids")
	scanCmd.Flags().Int64Var(&scanMaxFilesize, "max-filesize", 0, "Per-file probe ceiling in bytes (0 = default)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Probe workers (0 = NumCPU)")
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	sources := args
	if len(sources) == 0 {
		sources = cfg.Scan.Sources
	}
	if len(sources) == 0 {
		return fmt.Errorf("scan: pass at least one directory (or set scan.sources in config)")
	}
	outDir := scanOut
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}
	if scanMaxFilesize == 0 {
		scanMaxFilesize = cfg.Scan.MaxFilesize
	}
	if scanWorkers == 0 {
		scanWorkers = cfg.Scan.Workers
	}
	packs := append(append([]string{}, cfg.Patterns.Packs...), scanPacks...)
	disabled := append(append([]string{}, cfg.Patterns.Disabled...), scanDisable...)
	only := cfg.Patterns.Only
	if len(scanOnly) > 0 {
		only = scanOnly
	}

	if err := loadPatternPacks(packs); err != nil {
		return err
	}
	applyModuleSettings(disabled, only)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, diags := scan.Scan(ctx, scan.Options{
		Sources:     sources,
		IgnoreDirs:  cfg.Scan.IgnoreDirs,
		IgnoreFiles: cfg.Scan.IgnoreFiles,
		MaxFilesize: scanMaxFilesize,
		Workers:     scanWorkers,
	})
	if len(diags.Warnings) > 0 {
		slog.Warn("scan warnings", "warnings", diags.Warnings)
	}
	run.ID = newRunID()
	run.Context.PatternPacks = packs
	run.Context.DisabledModules = disabled
	run.Context.OnlyModules = only

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.SaveRun(&run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	// reports show detections with active ignores filtered out; the stored
	// run keeps everything
	igs, err := db.ListIgnores(true)
	if err != nil {
		return fmt.Errorf("load ignores: %w", err)
	}
	reportRun := run
	var dropped int
	reportRun.Detections, dropped = modules.ApplyIgnores(run.Detections, igs)
	if dropped > 0 {
		slog.Info("ignores applied", "dropped", dropped)
	}

	jsonPath, err := reporting.WriteJSON(run.ID, outDir, &reportRun)
	if err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	htmlPath, err := reporting.WriteHTML(run.ID, outDir, &reportRun)
	if err != nil {
		return fmt.Errorf("write html report: %w", err)
	}

	slog.Info("scan complete",
		"run", run.ID,
		"seen", run.Totals.FilesSeen,
		"matched", run.Totals.FilesMatched,
		"skipped", run.Totals.FilesSkipped,
		"elapsed_ms", run.Totals.ElapsedMS,
	)
	fmt.Printf("Scan OK\n  Run: %s\n  Files: %d seen, %d probed, %d matched, %d skipped\n  JSON: %s\n  HTML: %s\n  DB: %s\n",
		run.ID, run.Totals.FilesSeen, run.Totals.FilesProbed, run.Totals.FilesMatched, run.Totals.FilesSkipped,
		jsonPath, htmlPath, filepath.Clean(dbPath))
	return nil
}
