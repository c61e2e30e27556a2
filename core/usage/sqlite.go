package usage

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the usage ledger in a SQLite database, so fill rates
// survive restarts without a backfill run.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS provider_usage (
        provider TEXT,
        day INTEGER,
        placed INTEGER,
        cycles INTEGER,
        PRIMARY KEY(provider, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or folds the record into its provider and day row.
func (s *SQLiteStore) Add(r Record) error {
	d := Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO provider_usage (provider, day, placed, cycles)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(provider, day) DO UPDATE SET
            placed = placed + excluded.placed,
            cycles = cycles + excluded.cycles`,
		r.Provider, d.Unix(), r.Placed, r.Cycles)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(provider string, start, end time.Time) ([]Record, error) {
	start = Day(start)
	end = Day(end)
	rows, err := s.db.Query(`SELECT provider, day, placed, cycles
        FROM provider_usage WHERE provider = ? AND day >= ? AND day <= ? ORDER BY day`,
		provider, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var prov string
		var ts int64
		var placed, cycles int
		if err := rows.Scan(&prov, &ts, &placed, &cycles); err != nil {
			return nil, err
		}
		res = append(res, Record{
			Provider: prov,
			Date:     time.Unix(ts, 0).UTC(),
			Placed:   placed,
			Cycles:   cycles,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
