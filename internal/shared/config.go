package shared

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./seqsift.db"
	} `yaml:"database"`

	Scan struct {
		Sources     []string `yaml:"sources"`      // ["./runs"]
		IgnoreDirs  []string `yaml:"ignore_dirs"`  // extra directory names to prune
		IgnoreFiles []string `yaml:"ignore_files"` // extra file name globs to skip
		MaxFilesize int64    `yaml:"max_filesize"` // bytes; 0 = built-in default
		Workers     int      `yaml:"workers"`      // 0 = NumCPU (capped)
	} `yaml:"scan"`

	Patterns struct {
		Packs    []string `yaml:"packs"`    // extra search pattern packs (YAML)
		Disabled []string `yaml:"disabled"` // module ids to disable
		Only     []string `yaml:"only"`     // restrict detection to these module ids
	} `yaml:"patterns"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	API struct {
		Addr           string   `yaml:"addr"`            // ":8080"
		AllowedOrigins []string `yaml:"allowed_origins"` // CORS allowlist; empty = *
		SessionMinutes int      `yaml:"session_minutes"` // 720
	} `yaml:"api"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./seqsift.db"
	c.Reporting.OutDir = "./reports"
	c.API.Addr = ":8080"
	c.API.SessionMinutes = 720
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("SEQSIFT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SEQSIFT_MAX_FILESIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Scan.MaxFilesize = n
		}
	}
	if v := os.Getenv("SEQSIFT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.Workers = n
		}
	}
	if v := os.Getenv("SEQSIFT_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("SEQSIFT_API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("SEQSIFT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SEQSIFT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}
