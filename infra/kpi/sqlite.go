package kpi

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fieldops/leadrouter/core/metrics/conv"
)

// SQLiteStore persists daily conversion KPI records in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS conv_kpi (
        rep_id TEXT,
        day INTEGER,
        assigned INTEGER,
        showed INTEGER,
        no_shows INTEGER,
        PRIMARY KEY(rep_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add merges the record into the rep's daily row.
func (s *SQLiteStore) Add(r conv.Record) error {
	d := conv.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO conv_kpi (rep_id, day, assigned, showed, no_shows)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(rep_id, day) DO UPDATE SET
            assigned = assigned + excluded.assigned,
            showed = showed + excluded.showed,
            no_shows = no_shows + excluded.no_shows`,
		r.RepID, d.Unix(), r.Assigned, r.Showed, r.NoShows)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(repID string, start, end time.Time) ([]conv.Record, error) {
	start = conv.Day(start)
	end = conv.Day(end)
	rows, err := s.db.Query(`SELECT rep_id, day, assigned, showed, no_shows
        FROM conv_kpi WHERE rep_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		repID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []conv.Record
	for rows.Next() {
		var rid string
		var ts int64
		var assigned, showed, noShows int
		if err := rows.Scan(&rid, &ts, &assigned, &showed, &noShows); err != nil {
			return nil, err
		}
		res = append(res, conv.Record{
			RepID:    rid,
			Date:     time.Unix(ts, 0).UTC(),
			Assigned: assigned,
			Showed:   showed,
			NoShows:  noShows,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
