package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/ir"
	"github.com/codewithboateng/seqsift/internal/modules"
	"github.com/codewithboateng/seqsift/internal/reporting"
)

var (
	reportRunID string
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render reports for a stored run",
	RunE:  runReportCmd,
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "latest", `Run ID (or "latest")`)
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output directory for reports")
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	outDir := reportOut
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var run ir.Run
	if reportRunID == "" || reportRunID == "latest" {
		run, err = db.LoadLatestRun()
	} else {
		run, err = db.LoadRun(reportRunID)
	}
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	igs, err := db.ListIgnores(true)
	if err != nil {
		return fmt.Errorf("load ignores: %w", err)
	}
	var dropped int
	run.Detections, dropped = modules.ApplyIgnores(run.Detections, igs)
	if dropped > 0 {
		slog.Info("ignores applied", "dropped", dropped)
	}

	jsonPath, err := reporting.WriteJSON(run.ID, outDir, &run)
	if err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	htmlPath, err := reporting.WriteHTML(run.ID, outDir, &run)
	if err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
	return nil
}
