package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Database.Driver != "sqlite" || c.Database.DSN != "./seqsift.db" {
		t.Fatalf("database defaults: %+v", c.Database)
	}
	if c.Reporting.OutDir != "./reports" || c.API.Addr != ":8080" || c.API.SessionMinutes != 720 {
		t.Fatalf("defaults: %+v", c)
	}
	if c.Logging.Format != "json" || c.Logging.Level != "info" {
		t.Fatalf("logging defaults: %+v", c.Logging)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seqsift.yaml")
	body := `
database:
  dsn: ./custom.db
scan:
  sources: ["./runs/batch7"]
  max_filesize: 1048576
  workers: 2
patterns:
  packs: ["./patterns/extra.yaml"]
  disabled: ["pychopper"]
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Database.DSN != "./custom.db" {
		t.Fatalf("dsn = %q", c.Database.DSN)
	}
	if len(c.Scan.Sources) != 1 || c.Scan.Sources[0] != "./runs/batch7" {
		t.Fatalf("sources = %v", c.Scan.Sources)
	}
	if c.Scan.MaxFilesize != 1048576 || c.Scan.Workers != 2 {
		t.Fatalf("scan = %+v", c.Scan)
	}
	if len(c.Patterns.Disabled) != 1 || c.Patterns.Disabled[0] != "pychopper" {
		t.Fatalf("patterns = %+v", c.Patterns)
	}
	if c.Logging.Level != "debug" {
		t.Fatalf("level = %q", c.Logging.Level)
	}
	// untouched keys keep their defaults
	if c.Reporting.OutDir != "./reports" {
		t.Fatalf("out dir = %q", c.Reporting.OutDir)
	}

	t.Setenv("SEQSIFT_DB_DSN", "/tmp/env.db")
	t.Setenv("SEQSIFT_WORKERS", "5")
	t.Setenv("SEQSIFT_LOG_LEVEL", "warn")
	c, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if c.Database.DSN != "/tmp/env.db" || c.Scan.Workers != 5 || c.Logging.Level != "warn" {
		t.Fatalf("env overrides lost: %+v", c)
	}
}

func TestLoadConfig_MissingFileFallsBack(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Database.DSN != "./seqsift.db" {
		t.Fatalf("expected defaults, got %+v", c)
	}
}
