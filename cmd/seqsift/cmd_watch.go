package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/ir"
	"github.com/codewithboateng/seqsift/internal/scan"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Watch directories and report new detections as files appear",
	Args:  cobra.ArbitraryArgs,
	RunE:  runWatchCmd,
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	sources := args
	if len(sources) == 0 {
		sources = cfg.Scan.Sources
	}
	if len(sources) == 0 {
		return fmt.Errorf("watch: pass at least one directory (or set scan.sources in config)")
	}

	if err := loadPatternPacks(cfg.Patterns.Packs); err != nil {
		return err
	}
	applyModuleSettings(cfg.Patterns.Disabled, cfg.Patterns.Only)

	w, err := scan.NewWatcher(scan.Options{
		Sources:     sources,
		IgnoreDirs:  cfg.Scan.IgnoreDirs,
		IgnoreFiles: cfg.Scan.IgnoreFiles,
		MaxFilesize: cfg.Scan.MaxFilesize,
	}, func(ds []ir.Detection) {
		for _, d := range ds {
			slog.Info("detection", "module", d.Module, "key", d.Key, "path", d.Path)
			fmt.Printf("%s\t%s\t%s\n", d.Module, d.Path, d.Evidence)
		}
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	slog.Info("watching", "sources", sources)
	return w.Run(ctx)
}
