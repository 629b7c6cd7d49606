package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// maxQueryVars keeps IN lists below SQLite's host parameter limit.
const maxQueryVars = 500

// Store is a SQLite-backed repository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and creates if needed) the database at path. Use ":memory:"
// for a throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	for _, query := range schema {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// CreateBook inserts a new book.
func (s *Store) CreateBook(ctx context.Context, title, author string) (*Book, error) {
	b := &Book{
		ID:        uuid.NewString(),
		Title:     title,
		Author:    author,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (id, title, author, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return b, nil
}

// GetBook returns the book with id.
func (s *Store) GetBook(ctx context.Context, id string) (*Book, error) {
	var (
		b       Book
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, author, created_at FROM books WHERE id = ?`, id).
		Scan(&b.ID, &b.Title, &b.Author, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	b.CreatedAt = time.UnixMilli(created).UTC()
	return &b, nil
}

// ListBooks returns all books, oldest first.
func (s *Store) ListBooks(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, created_at FROM books ORDER BY created_at, title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var (
			b       Book
			created int64
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &created); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		b.CreatedAt = time.UnixMilli(created).UTC()
		books = append(books, b)
	}
	return books, rows.Err()
}

// NextChapterOrder returns one past the highest chapter order of the book,
// or 1 for a book without chapters.
func (s *Store) NextChapterOrder(ctx context.Context, bookID string) (int, error) {
	var max int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(ord), 0) FROM chapters WHERE book_id = ?`, bookID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get next chapter order: %w", err)
	}
	return max + 1, nil
}

// CreateChapter inserts c, assigning its ID and timestamps.
func (s *Store) CreateChapter(ctx context.Context, c *Chapter) error {
	paragraphs, err := encodeParagraphs(c.Paragraphs)
	if err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	id := uuid.NewString()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chapters (id, book_id, ord, title, summary, paragraphs, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.BookID, c.Order, c.Title, c.Summary, paragraphs, string(c.Status),
		now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create chapter: %w", err)
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
	return nil
}

// UpdateChapter overwrites the mutable fields of the chapter with c.ID.
func (s *Store) UpdateChapter(ctx context.Context, c *Chapter) error {
	paragraphs, err := encodeParagraphs(c.Paragraphs)
	if err != nil {
		return err
	}
	now := s.now().UTC().Truncate(time.Millisecond)

	res, err := s.db.ExecContext(ctx,
		`UPDATE chapters SET ord = ?, title = ?, summary = ?, paragraphs = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		c.Order, c.Title, c.Summary, paragraphs, string(c.Status), now.UnixMilli(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("chapter %s: %w", c.ID, ErrNotFound)
	}
	c.UpdatedAt = now
	return nil
}

const chapterColumns = `id, book_id, ord, title, summary, paragraphs, status, created_at, updated_at`

// GetChapter returns the chapter with id.
func (s *Store) GetChapter(ctx context.Context, id string) (*Chapter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE id = ?`, id)
	c, err := scanChapter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chapter %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return c, nil
}

// ChapterByOrder returns the chapter of the book with the given order.
func (s *Store) ChapterByOrder(ctx context.Context, bookID string, order int) (*Chapter, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE book_id = ? AND ord = ?`, bookID, order)
	c, err := scanChapter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chapter %d of book %s: %w", order, bookID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return c, nil
}

// ChaptersByBook returns the chapters of a book in order.
func (s *Store) ChaptersByBook(ctx context.Context, bookID string) ([]Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE book_id = ? ORDER BY ord`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, *c)
	}
	return chapters, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChapter(row scanner) (*Chapter, error) {
	var (
		c                Chapter
		paragraphs       string
		status           string
		created, updated int64
	)
	if err := row.Scan(&c.ID, &c.BookID, &c.Order, &c.Title, &c.Summary, &paragraphs, &status, &created, &updated); err != nil {
		return nil, err
	}
	if err := sonic.UnmarshalString(paragraphs, &c.Paragraphs); err != nil {
		return nil, fmt.Errorf("failed to decode paragraphs of chapter %s: %w", c.ID, err)
	}
	c.Status = Status(status)
	c.CreatedAt = time.UnixMilli(created).UTC()
	c.UpdatedAt = time.UnixMilli(updated).UTC()
	return &c, nil
}

func encodeParagraphs(p []Paragraph) (string, error) {
	if p == nil {
		p = []Paragraph{}
	}
	out, err := sonic.MarshalString(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode paragraphs: %w", err)
	}
	return out, nil
}

// GlossaryByBook returns the glossary of a book. An empty bookID returns
// every entry.
func (s *Store) GlossaryByBook(ctx context.Context, bookID string) ([]GlossaryEntry, error) {
	query := `SELECT id, raw, translated, type, book_id, first_chapter_id FROM glossaries`
	var args []any
	if bookID != "" {
		query += ` WHERE book_id = ?`
		args = append(args, bookID)
	}
	query += ` ORDER BY type, raw`
	return s.queryGlossary(ctx, query, args...)
}

// FindGlossaryByRaw returns the entries whose raw text is one of raws,
// scoped to bookID when it is not empty.
func (s *Store) FindGlossaryByRaw(ctx context.Context, raws []string, bookID string) ([]GlossaryEntry, error) {
	var found []GlossaryEntry
	for start := 0; start < len(raws); start += maxQueryVars {
		end := min(start+maxQueryVars, len(raws))
		batch := raws[start:end]

		query := `SELECT id, raw, translated, type, book_id, first_chapter_id FROM glossaries
			WHERE raw IN (` + placeholders(len(batch)) + `)`
		args := make([]any, 0, len(batch)+1)
		for _, raw := range batch {
			args = append(args, raw)
		}
		if bookID != "" {
			query += ` AND book_id = ?`
			args = append(args, bookID)
		}

		entries, err := s.queryGlossary(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		found = append(found, entries...)
	}
	return found, nil
}

// InsertGlossary inserts entries in one transaction, skipping rows that
// violate the (raw, type, book) uniqueness. It returns how many were added.
func (s *Store) InsertGlossary(ctx context.Context, entries []GlossaryEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO glossaries (id, raw, translated, type, book_id, first_chapter_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare glossary insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		res, err := stmt.ExecContext(ctx, e.ID, e.Raw, e.Translated, e.Type,
			nullable(e.BookID), nullable(e.FirstChapterID))
		if err != nil {
			return 0, fmt.Errorf("failed to insert glossary entry %q: %w", e.Raw, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit glossary: %w", err)
	}
	return count, nil
}

func (s *Store) queryGlossary(ctx context.Context, query string, args ...any) ([]GlossaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query glossary: %w", err)
	}
	defer rows.Close()

	var entries []GlossaryEntry
	for rows.Next() {
		var (
			e               GlossaryEntry
			book, firstChap sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Raw, &e.Translated, &e.Type, &book, &firstChap); err != nil {
			return nil, fmt.Errorf("failed to scan glossary entry: %w", err)
		}
		e.BookID, e.FirstChapterID = book.String, firstChap.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
