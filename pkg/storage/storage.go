package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/greenlens/greenlens/pkg/dataset"
)

// DB is a local snapshot cache of the project dataset. Serving never
// requires it; it exists so a dashboard can come up from the last imported
// snapshot when the upstream CSV is unreachable.
type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS projects (
  id           INTEGER PRIMARY KEY,
  seq          INTEGER NOT NULL,
  identity_key TEXT NOT NULL,
  name         TEXT,
  country      TEXT,
  city         TEXT,
  status       TEXT,
  lat          REAL,
  lon          REAL,
  has_coords   INTEGER NOT NULL CHECK (has_coords IN (0,1)),
  record       TEXT NOT NULL,
  imported_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_projects_seq ON projects(seq);
CREATE INDEX IF NOT EXISTS idx_projects_identity ON projects(identity_key);
CREATE TABLE IF NOT EXISTS imports (
  id          INTEGER PRIMARY KEY,
  source      TEXT NOT NULL,
  row_count   INTEGER NOT NULL,
  imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveRows replaces the cached snapshot with the given rows, preserving
// their order. Repaired coordinates are persisted in the lat/lon columns,
// so a reload gets the corrected positions without re-running repair.
func (d *DB) SaveRows(ctx context.Context, source string, rows []*dataset.Row) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return err
	}
	for i, r := range rows {
		record, merr := json.Marshal(r.Record())
		if merr != nil {
			return fmt.Errorf("encode row %d: %w", i, merr)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO projects(seq, identity_key, name, country, city, status, lat, lon, has_coords, record) VALUES(?,?,?,?,?,?,?,?,?,?)`,
			i, r.IdentityKey(), nullIfEmpty(r.Name), nullIfEmpty(r.Country), nullIfEmpty(r.City), nullIfEmpty(r.Status),
			r.Lat, r.Lon, boolToInt(r.HasCoords), string(record))
		if err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO imports(source, row_count) VALUES(?,?)`, source, len(rows)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadRows returns the cached snapshot in import order.
func (d *DB) LoadRows(ctx context.Context) ([]*dataset.Row, error) {
	q := `SELECT lat, lon, has_coords, record FROM projects ORDER BY seq`
	rows, err := d.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*dataset.Row
	for rows.Next() {
		var (
			lat, lon     sql.NullFloat64
			hasCoordsInt int
			record       string
		)
		if err := rows.Scan(&lat, &lon, &hasCoordsInt, &record); err != nil {
			return nil, err
		}
		fields := make(map[string]string)
		if err := json.Unmarshal([]byte(record), &fields); err != nil {
			return nil, fmt.Errorf("decode cached row: %w", err)
		}
		r := dataset.FromRecord(fields)
		if hasCoordsInt == 1 {
			r.SetCoords(lat.Float64, lon.Float64)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LastImport describes the most recent snapshot import.
type LastImport struct {
	Source     string
	RowCount   int
	ImportedAt time.Time
}

func (d *DB) LastImport(ctx context.Context) (*LastImport, error) {
	q := `SELECT source, row_count, imported_at FROM imports ORDER BY id DESC LIMIT 1`
	var (
		li    LastImport
		tsStr string
	)
	err := d.sql.QueryRowContext(ctx, q).Scan(&li.Source, &li.RowCount, &tsStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Parse SQLite CURRENT_TIMESTAMP format, then RFC3339.
	if t, perr := time.Parse("2006-01-02 15:04:05", tsStr); perr == nil {
		li.ImportedAt = t
	} else if t2, perr2 := time.Parse(time.RFC3339, tsStr); perr2 == nil {
		li.ImportedAt = t2
	}
	return &li, nil
}

// CountryStats is a per-country row count, for the stats command.
type CountryStats struct {
	Country string
	Count   int
}

func (d *DB) GetStats(ctx context.Context) ([]CountryStats, error) {
	query := `
		SELECT
			COALESCE(country, ''),
			COUNT(*)
		FROM
			projects
		GROUP BY
			country
		ORDER BY
			COUNT(*) DESC, country;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CountryStats
	for rows.Next() {
		var s CountryStats
		if err := rows.Scan(&s.Country, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
