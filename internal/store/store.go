// Package store archives calculated quotes in SQLite so they can be listed,
// reopened and exported later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/piwi3910/cabinetquote/internal/model"
)

// timeLayout is fixed width so that created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrQuoteNotFound is returned when no quote has the requested ID.
var ErrQuoteNotFound = errors.New("quote not found")

// Store is a quote archive backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Record is one archived quote with its full calculation snapshot.
type Record struct {
	ID         string                  `json:"id"`
	Title      string                  `json:"title"`
	CreatedAt  time.Time               `json:"created_at"`
	GrandTotal float64                 `json:"grand_total"`
	Warnings   int                     `json:"warnings"`
	Result     model.CalculationResult `json:"result"`
}

// Summary is a quote list entry without the snapshot.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	GrandTotal float64   `json:"grand_total"`
	Warnings   int       `json:"warnings"`
}

// Open opens the SQLite database at path, sets recommended pragmas, validates
// connectivity and applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveQuote archives a calculation result under a new ID. An empty title falls
// back to the result's own title.
func (s *Store) SaveQuote(ctx context.Context, title string, result model.CalculationResult) (Record, error) {
	if title == "" {
		title = result.Title
	}
	rec := Record{
		ID:         uuid.NewString(),
		Title:      title,
		CreatedAt:  time.Now().UTC(),
		GrandTotal: model.RoundCurrency(result.Quote.GrandTotal),
		Warnings:   len(result.Warnings()),
		Result:     result,
	}

	data, err := json.Marshal(result)
	if err != nil {
		return Record{}, fmt.Errorf("encode quote snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, title, created_at, grand_total, warnings, result_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.CreatedAt.Format(timeLayout), rec.GrandTotal, rec.Warnings, string(data))
	if err != nil {
		return Record{}, fmt.Errorf("insert quote: %w", err)
	}
	return rec, nil
}

// GetQuote loads an archived quote with its snapshot.
func (s *Store) GetQuote(ctx context.Context, id string) (Record, error) {
	var (
		rec       Record
		createdAt string
		data      string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, created_at, grand_total, warnings, result_json
		FROM quotes
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Title, &createdAt, &rec.GrandTotal, &rec.Warnings, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("select quote: %w", err)
	}

	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Record{}, fmt.Errorf("parse quote timestamp: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &rec.Result); err != nil {
		return Record{}, fmt.Errorf("decode quote snapshot: %w", err)
	}
	return rec, nil
}

// ListQuotes returns archived quotes, newest first. A non-empty query filters on
// the title or an ID prefix.
func (s *Store) ListQuotes(ctx context.Context, query string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at, grand_total, warnings
		FROM quotes
		WHERE (? = '' OR title LIKE ? OR id LIKE ?)
		ORDER BY created_at DESC, seq DESC
	`, query, "%"+query+"%", query+"%")
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		var createdAt string
		if err := rows.Scan(&item.ID, &item.Title, &createdAt, &item.GrandTotal, &item.Warnings); err != nil {
			return nil, err
		}
		if item.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse quote timestamp: %w", err)
		}
		quotes = append(quotes, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// DeleteQuote removes an archived quote.
func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
	}
	return nil
}
