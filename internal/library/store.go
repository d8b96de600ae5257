package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"shelfmark/internal/config"
	"shelfmark/internal/detect"
	"shelfmark/internal/services"
	"shelfmark/internal/textnorm"
)

// Book is a persisted library entry.
type Book struct {
	ID        int64
	Title     string
	Author    string
	Category  string
	Series    string
	Volume    int
	Read      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DetectInput converts the stored record into the shape the detection
// engine consumes.
func (b Book) DetectInput() detect.Book {
	return detect.Book{
		Title:    b.Title,
		Author:   b.Author,
		Category: b.Category,
		Series:   b.Series,
		Volume:   b.Volume,
	}
}

// StateKey identifies a book for read-state lookups independent of
// formatting differences in title or author.
func StateKey(title, author string) string {
	return textnorm.Key(title) + "|" + textnorm.Key(author)
}

// Store manages library persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the library database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.LibraryDB
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(dbPath + ".lock"),
	}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) withLock(op func() error) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire library lock: %w", err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()
	return op()
}

// Add inserts a book into the library and returns the stored record.
func (s *Store) Add(ctx context.Context, book Book) (*Book, error) {
	if strings.TrimSpace(book.Title) == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "add", "book title is required", nil)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	var id int64
	err := s.withLock(func() error {
		res, execErr := s.execWithRetry(
			ctx,
			`INSERT INTO books (
                title, author, category, series, volume, read, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			book.Title,
			book.Author,
			book.Category,
			book.Series,
			book.Volume,
			boolToInt(book.Read),
			timestamp,
			timestamp,
		)
		if execErr != nil {
			return fmt.Errorf("insert book: %w", execErr)
		}
		insertID, idErr := res.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("last insert id: %w", idErr)
		}
		id = insertID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a single book.
func (s *Store) GetByID(ctx context.Context, id int64) (*Book, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM books WHERE id = ?", id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "library", "get", fmt.Sprintf("no book with id %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return book, nil
}

// List returns every book ordered by insertion.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, selectColumns+" FROM books ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		book, scanErr := scanBook(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan book: %w", scanErr)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// MarkRead flips the read flag on every book matching the title and
// author, compared on normalized keys.
func (s *Store) MarkRead(ctx context.Context, title, author string, read bool) (int, error) {
	books, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	target := StateKey(title, author)
	var ids []int64
	for _, book := range books {
		if StateKey(book.Title, book.Author) == target {
			ids = append(ids, book.ID)
		}
	}
	if len(ids) == 0 {
		return 0, services.Wrap(services.ErrNotFound, "library", "mark-read", fmt.Sprintf("no book matching %q by %q", title, author), nil)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	err = s.withLock(func() error {
		for _, id := range ids {
			if _, execErr := s.execWithRetry(
				ctx,
				"UPDATE books SET read = ?, updated_at = ? WHERE id = ?",
				boolToInt(read), timestamp, id,
			); execErr != nil {
				return fmt.Errorf("update read state: %w", execErr)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ReadStates returns read flags keyed by normalized title and author,
// suitable for completion accounting during grouping.
func (s *Store) ReadStates(ctx context.Context) (map[string]bool, error) {
	books, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	states := make(map[string]bool, len(books))
	for _, book := range books {
		key := StateKey(book.Title, book.Author)
		// A reread copy never un-reads the work.
		states[key] = states[key] || book.Read
	}
	return states, nil
}

const selectColumns = "SELECT id, title, author, category, series, volume, read, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var (
		book      Book
		readFlag  int
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Category,
		&book.Series,
		&book.Volume,
		&readFlag,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	book.Read = readFlag != 0
	book.CreatedAt = parseTimestamp(createdAt)
	book.UpdatedAt = parseTimestamp(updatedAt)
	return &book, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
