package storage

import (
	"database/sql"
	"time"
)

// Ignore suppresses matching detections at report time. The detections stay
// in the stored run; they are filtered when a report is rendered.
type Ignore struct {
	ID         int64      `json:"id"`
	Module     string     `json:"module"`
	PathGlob   string     `json:"path_glob,omitempty"`
	PatternSub string     `json:"pattern_sub,omitempty"`
	Reason     string     `json:"reason"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func (db *DB) CreateIgnore(module, pathGlob, patternSub, reason, createdBy string, expires time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := db.conn.Exec(`
INSERT INTO ignores(module, path_glob, pattern_sub, reason, expires_at, created_by, created_at)
VALUES(?,?,?,?,?,?,?)`,
		module, nz(pathGlob), nz(patternSub), reason, expires.UTC().Format(time.RFC3339Nano), createdBy, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) RevokeIgnore(id int64) error {
	// the revoker is recorded in audit; the ignores table only has revoked_at
	_, err := db.conn.Exec(`UPDATE ignores SET revoked_at=? WHERE id=? AND revoked_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

func (db *DB) ListIgnores(activeOnly bool) ([]Ignore, error) {
	q := `
SELECT id, module, COALESCE(path_glob,''), COALESCE(pattern_sub,''),
       reason, expires_at, created_by, created_at, revoked_at
FROM ignores`
	args := []any{}
	if activeOnly {
		q += ` WHERE (revoked_at IS NULL) AND (expires_at > ?)`
		args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	}
	q += ` ORDER BY id DESC`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ignore
	for rows.Next() {
		var (
			ig      Ignore
			exp, ca string
			ra      sql.NullString
		)
		if err := rows.Scan(&ig.ID, &ig.Module, &ig.PathGlob, &ig.PatternSub, &ig.Reason, &exp, &ig.CreatedBy, &ca, &ra); err != nil {
			return nil, err
		}
		ig.ExpiresAt = parseTS(exp)
		ig.CreatedAt = parseTS(ca)
		if ra.Valid {
			t := parseTS(ra.String)
			ig.RevokedAt = &t
		}
		out = append(out, ig)
	}
	return out, rows.Err()
}

func nz(s string) any {
	if s == "" {
		return nil
	}
	return s
}
