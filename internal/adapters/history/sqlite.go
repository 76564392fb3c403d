package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

// SQLiteStore implements ports.HistoryStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
	stamper
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "./data/history.db"
	}

	// Ensure data directory exists
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, stamper: defaultStamper()}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store, nil
}

// initSchema creates the necessary tables.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recommendation_histories (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		lat REAL,
		lon REAL,
		result TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_histories_created_at ON recommendation_histories(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts one record.
func (s *SQLiteStore) Save(ctx context.Context, category string, lat, lon *float64, result entities.RecommendationResult) (rec entities.HistoryRecord, err error) {
	defer func() { observeSave("sqlite", err) }()

	rec = s.record(category, lat, lon, result)
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return entities.HistoryRecord{}, unavailable(opSave, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recommendation_histories (id, category, lat, lon, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Category, nullFloat(rec.Lat), nullFloat(rec.Lon), string(payload), rec.CreatedAt.UnixNano())
	if err != nil {
		if isSQLiteUnique(err) {
			return entities.HistoryRecord{}, conflict(err)
		}
		return entities.HistoryRecord{}, unavailable(opSave, err)
	}
	return rec, nil
}

// List returns every record, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]entities.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, lat, lon, result, created_at
		FROM recommendation_histories
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, unavailable(opList, err)
	}
	defer rows.Close()

	records := []entities.HistoryRecord{}
	for rows.Next() {
		var (
			rec      entities.HistoryRecord
			lat, lon sql.NullFloat64
			payload  string
			created  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Category, &lat, &lon, &payload, &created); err != nil {
			return nil, unavailable(opList, err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Result); err != nil {
			return nil, unavailable(opList, fmt.Errorf("decoding result of %s: %w", rec.ID, err))
		}
		rec.Lat = floatPtr(lat)
		rec.Lon = floatPtr(lon)
		rec.CreatedAt = time.Unix(0, created).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(opList, err)
	}
	return records, nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isSQLiteUnique(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
