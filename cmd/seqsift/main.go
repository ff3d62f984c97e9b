package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/ir"
	"github.com/codewithboateng/seqsift/internal/modules"
	"github.com/codewithboateng/seqsift/internal/patterndsl"
	"github.com/codewithboateng/seqsift/internal/shared"
	"github.com/codewithboateng/seqsift/internal/storage"
)

const appVersion = "0.4.0"

var (
	// Global flags
	cfgPath string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "seqsift",
	Short: "seqsift - sequencing log and report detector",
	Long: `seqsift walks analysis directories and identifies which bioinformatics
tool produced each log or report file, using declarative search patterns.

Detections are persisted to SQLite and rendered as JSON and HTML reports;
"serve" exposes the same data over a small HTTP API.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("seqsift %s (IR %s)\n", appVersion, ir.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the YAML config, initializes logging, and applies the
// flag > config > default precedence for the database path.
func loadConfig() shared.Config {
	cfg, _ := shared.LoadConfig(cfgPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}
	return cfg
}

func openDB() (*storage.DB, error) {
	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// loadPatternPacks registers extra search patterns on top of the builtins.
func loadPatternPacks(paths []string) error {
	for _, p := range paths {
		n, err := patterndsl.LoadAndRegister(p)
		if err != nil {
			return err
		}
		slog.Info("pattern pack loaded", "path", p, "keys", n)
	}
	return nil
}

func applyModuleSettings(disabled, only []string) {
	for _, id := range append(append([]string{}, disabled...), only...) {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := modules.Get(id); !ok {
			slog.Warn("module setting names no registered module", "module", id)
		}
	}
	modules.SetSettings(modules.Settings{
		Disabled: lowerSet(disabled),
		Only:     lowerSet(only),
	})
}

func lowerSet(ids []string) map[string]bool {
	m := map[string]bool{}
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			m[id] = true
		}
	}
	return m
}

// newRunID is sortable by start time; the suffix keeps concurrent runs apart.
func newRunID() string {
	return fmt.Sprintf("run-%s-%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
}
