package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/reporting"
)

var (
	diffBase string
	diffHead string
	diffOut  string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff detections between two stored runs",
	RunE:  runDiffCmd,
}

func init() {
	diffCmd.Flags().StringVar(&diffBase, "base", "", "Base run ID")
	diffCmd.Flags().StringVar(&diffHead, "head", "", "Head run ID")
	diffCmd.Flags().StringVar(&diffOut, "out", "", "Output directory")
	_ = diffCmd.MarkFlagRequired("base")
	_ = diffCmd.MarkFlagRequired("head")
}

func runDiffCmd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	outDir := diffOut
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	base, err := db.LoadRun(diffBase)
	if err != nil {
		return fmt.Errorf("load base run: %w", err)
	}
	head, err := db.LoadRun(diffHead)
	if err != nil {
		return fmt.Errorf("load head run: %w", err)
	}
	path, err := reporting.WriteDiffJSON(diffBase, diffHead, outDir, &base, &head)
	if err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	fmt.Printf("Diff OK\n  %s\n", path)
	return nil
}
