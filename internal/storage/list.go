package storage

import (
	"database/sql"
	"time"

	"github.com/codewithboateng/seqsift/internal/ir"
)

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.source, r.ir_version,
		       (SELECT COUNT(1) FROM detections d WHERE d.run_id = r.id) AS detections
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Source, &rr.IRVersion, &rr.Detections); err != nil {
			return nil, err
		}
		// Parse RFC3339Nano first, fallback to RFC3339
		if t, err := time.Parse(time.RFC3339Nano, startedAtStr); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAtStr); err2 == nil {
			rr.StartedAt = t2
		} else {
			// leave zero time if unparsable (shouldn't happen)
			rr.StartedAt = time.Time{}
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListDetections returns a run's detections, optionally only those of
// one module.
func (db *DB) ListDetections(runID, module string) ([]ir.Detection, error) {
	const q = `
		SELECT id, module, pattern_key, path, file, sample_hint, size, evidence
		  FROM detections
		 WHERE run_id = ?
		   AND (? = '' OR module = ?)
		 ORDER BY path, module, pattern_key, id`
	rows, err := db.conn.Query(q, runID, module, module)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.Detection
	for rows.Next() {
		var d ir.Detection
		if err := rows.Scan(&d.ID, &d.Module, &d.Key, &d.Path, &d.File, &d.SampleHint, &d.Size, &d.Evidence); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ModuleCounts returns how many detections each module produced in a run.
func (db *DB) ModuleCounts(runID string) (map[string]int, error) {
	rows, err := db.conn.Query(
		`SELECT module, COUNT(1) FROM detections WHERE run_id = ? GROUP BY module`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var mod string
		var n int
		if err := rows.Scan(&mod, &n); err != nil {
			return nil, err
		}
		out[mod] = n
	}
	return out, rows.Err()
}

// HasRun reports whether a run exists without loading its JSON.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
