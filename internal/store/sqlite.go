package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leca/image-store/internal/model"
	_ "modernc.org/sqlite"
)

// Compile-time check that SQLite implements Store.
var _ Store = (*SQLite)(nil)

// SQLite implements Store on top of an SQLite database. The identifier
// counter lives in the counters table and is advanced in the same
// transaction as the insert, so identifiers survive deletes and are never
// reused.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) an SQLite database at dsn and runs migrations.
// An empty dsn means a private in-memory database.
func NewSQLite(dsn string) (*SQLite, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: is a separate database; a single
	// connection also serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Add(name string, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("sqlite store: rollback failed", "error", err)
		}
	}()

	var id int64
	if err := tx.QueryRow(`SELECT value FROM counters WHERE name = 'images'`).Scan(&id); err != nil {
		return 0, fmt.Errorf("read id counter: %w", err)
	}
	if _, err := tx.Exec(`UPDATE counters SET value = ? WHERE name = 'images'`, id+1); err != nil {
		return 0, fmt.Errorf("advance id counter: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO images (id, name, data) VALUES (?, ?, ?)`, id, name, data); err != nil {
		return 0, fmt.Errorf("insert image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit image: %w", err)
	}
	return id, nil
}

func (s *SQLite) Get(id int64) (model.Image, bool, error) {
	img := model.Image{}
	err := s.db.QueryRow(`SELECT id, name, data FROM images WHERE id = ?`, id).
		Scan(&img.ID, &img.Name, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Image{}, false, nil
	}
	if err != nil {
		return model.Image{}, false, fmt.Errorf("get image: %w", err)
	}
	return img, true, nil
}

func (s *SQLite) List() ([]model.ImageSummary, error) {
	rows, err := s.db.Query(`SELECT id, name FROM images ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	out := []model.ImageSummary{}
	for rows.Next() {
		var sum model.ImageSummary
		if err := rows.Scan(&sum.ID, &sum.Name); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLite) Delete(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete image: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM images`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return count, nil
}
