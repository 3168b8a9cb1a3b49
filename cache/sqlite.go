package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"weather-dashboard/models"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using sqlite (pure Go driver modernc.org/sqlite)
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Println("warning: could not set WAL mode:", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS geocode_cache (
        key TEXT PRIMARY KEY,
        payload TEXT NOT NULL,
        stored_at INTEGER NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	var payload string
	var storedAt int64
	err := s.db.QueryRowContext(ctx, `SELECT payload, stored_at FROM geocode_cache WHERE key = ?`, key).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	var locations []models.Location
	if err := json.Unmarshal([]byte(payload), &locations); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached payload: %w", err)
	}
	return Entry{Locations: locations, StoredAt: time.Unix(0, storedAt)}, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, entry Entry) error {
	payload, err := json.Marshal(entry.Locations)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO geocode_cache(key, payload, stored_at) VALUES(?,?,?)`,
		key, string(payload), entry.StoredAt.UnixNano())
	return err
}

func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM geocode_cache WHERE stored_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
