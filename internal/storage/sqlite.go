package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/codewithboateng/seqsift/internal/ir"
)

// Loaded runs are immutable, so a small LRU avoids re-decoding the run
// JSON on every report or API request.
const runCacheSize = 32

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn  *sql.DB
	cache *lru.Cache[string, ir.Run]
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, ir.Run](runCacheSize)
	if err != nil {
		c.Close()
		return nil, err
	}
	return &DB{conn: c, cache: cache}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables (and compatibility views) exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id         TEXT PRIMARY KEY,
  started_at TEXT,          -- RFC3339
  source     TEXT,
  ir_version TEXT,
  run_json   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS detections (
  id          TEXT,
  run_id      TEXT NOT NULL,
  module      TEXT,
  pattern_key TEXT,
  path        TEXT,
  file        TEXT,
  sample_hint TEXT,
  size        INTEGER,
  evidence    TEXT,
  PRIMARY KEY (id, run_id),
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_detections_run ON detections(run_id);
CREATE INDEX IF NOT EXISTS idx_detections_module ON detections(module);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS ignores (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  module      TEXT NOT NULL,
  path_glob   TEXT,              -- optional glob on path or file name; NULL = any
  pattern_sub TEXT,              -- optional substring to match key/evidence
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- RFC3339Nano
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);

-- ------------------------------------------------------------------
-- Views for ad-hoc queries with the sqlite3 shell: which modules ever
-- matched, and which (module, path) pairs.
-- ------------------------------------------------------------------
CREATE VIEW IF NOT EXISTS modules AS
SELECT DISTINCT module
FROM detections
WHERE module IS NOT NULL;

CREATE VIEW IF NOT EXISTS files AS
SELECT DISTINCT module, path
FROM detections
WHERE path IS NOT NULL;
`)
	if err != nil {
		return err
	}
	return nil
}

// SaveRun upserts a run JSON and (re)writes its detections.
func (db *DB) SaveRun(run *ir.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, source, ir_version, run_json)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, source=excluded.source, ir_version=excluded.ir_version, run_json=excluded.run_json`,
		run.ID, ts, run.Source, run.IRVersion, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM detections WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Detections) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO detections
			(id, run_id, module, pattern_key, path, file, sample_hint, size, evidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, d := range run.Detections {
			if _, err := stmt.Exec(
				d.ID,
				run.ID,
				d.Module,
				d.Key,
				d.Path,
				d.File,
				d.SampleHint,
				d.Size,
				d.Evidence,
			); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.cache.Add(run.ID, *run)
	return nil
}

// LoadRun returns the full run (from cache, or the stored JSON).
func (db *DB) LoadRun(id string) (ir.Run, error) {
	if run, ok := db.cache.Get(id); ok {
		return run, nil
	}
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return ir.Run{}, err
	}
	var run ir.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return ir.Run{}, err
	}
	db.cache.Add(id, run)
	return run, nil
}

// LoadLatestRun returns the most recent run by start time.
func (db *DB) LoadLatestRun() (ir.Run, error) {
	var id string
	row := db.conn.QueryRow(`SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	if err := row.Scan(&id); err != nil {
		return ir.Run{}, err
	}
	return db.LoadRun(id)
}
