package library

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection. It stores
// the shared book catalog and the registered user accounts.
type Database struct {
	db *sql.DB

	addBookStmt *sql.Stmt
	addUserStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	if d.addUserStmt != nil {
		d.addUserStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

const booksSchema = `CREATE TABLE IF NOT EXISTS books (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author TEXT NOT NULL,
    title TEXT NOT NULL,
    year INTEGER NOT NULL,
    genre TEXT NOT NULL,
    length INTEGER NOT NULL,
    read_count INTEGER NOT NULL DEFAULT 0,
    UNIQUE(author, title, year)
);`

const usersSchema = `CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		booksSchema,
		usersSchema,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Prepare(`INSERT INTO books(author,title,year,genre,length) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if d.addUserStmt, err = d.db.Prepare(`INSERT INTO users(username,password_hash) VALUES(?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Catalog CRUD
// ---------------------------------------------------------------------------

// CreateBook validates and inserts a book, returning its assigned ID. The
// compound key (author, title, year) must be unique across the catalog.
func (d *Database) CreateBook(author, title string, year int, genre string, length int) (int64, error) {
	author = strings.TrimSpace(author)
	title = strings.TrimSpace(title)
	genre = strings.TrimSpace(genre)

	switch {
	case author == "":
		return 0, validationErrorf("author must be a non-empty string")
	case title == "":
		return 0, validationErrorf("title must be a non-empty string")
	case year < 1900:
		return 0, validationErrorf("year must be 1900 or later, got %d", year)
	case genre == "":
		return 0, validationErrorf("genre must be a non-empty string")
	case length <= 0:
		return 0, validationErrorf("length must be a positive number of pages, got %d", length)
	}

	res, err := d.addBookStmt.Exec(author, title, year, genre, length)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, validationErrorf("book with author %q, title %q, and year %d already exists", author, title, year)
		}
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return res.LastInsertId()
}

// DeleteBook permanently removes a book from the catalog. Reading lists are
// left untouched; a dangling reference surfaces as ErrBookNotFound the next
// time it is resolved.
func (d *Database) DeleteBook(id int64) error {
	res, err := d.db.Exec(`DELETE FROM books WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("book %d: %w", id, ErrBookNotFound)
	}
	return nil
}

// GetBook fetches a single book by ID.
func (d *Database) GetBook(id int64) (*Book, error) {
	var b Book
	err := d.db.QueryRow(`SELECT id,author,title,year,genre,length,read_count FROM books WHERE id=?`, id).
		Scan(&b.ID, &b.Author, &b.Title, &b.Year, &b.Genre, &b.Length, &b.ReadCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBookByCompoundKey fetches the book uniquely identified by
// (author, title, year).
func (d *Database) GetBookByCompoundKey(author, title string, year int) (*Book, error) {
	var b Book
	err := d.db.QueryRow(
		`SELECT id,author,title,year,genre,length,read_count FROM books WHERE author=? AND title=? AND year=?`,
		strings.TrimSpace(author), strings.TrimSpace(title), year).
		Scan(&b.ID, &b.Author, &b.Title, &b.Year, &b.Genre, &b.Length, &b.ReadCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("book %q by %q (%d): %w", title, author, year, ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBooks returns the whole catalog. With sortByReadCount it is ordered by
// read count descending with ties broken by ID ascending, which makes the
// leaderboard deterministic; otherwise plain ID order.
func (d *Database) ListBooks(sortByReadCount bool) ([]*Book, error) {
	order := `ORDER BY id`
	if sortByReadCount {
		order = `ORDER BY read_count DESC, id`
	}
	rows, err := d.db.Query(`SELECT id,author,title,year,genre,length,read_count FROM books ` + order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Author, &b.Title, &b.Year, &b.Genre, &b.Length, &b.ReadCount); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// IncrementReadCount bumps a book's read count by one. Read counts are
// monotonically non-decreasing.
func (d *Database) IncrementReadCount(id int64) error {
	res, err := d.db.Exec(`UPDATE books SET read_count=read_count+1 WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("book %d: %w", id, ErrBookNotFound)
	}
	return nil
}

// RandomBook picks a uniformly random book from the catalog.
func (d *Database) RandomBook() (*Book, error) {
	books, err := d.ListBooks(false)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("catalog is empty: %w", ErrBookNotFound)
	}
	return books[rand.Intn(len(books))], nil
}

// ResetBooks drops and recreates the books table, wiping the catalog.
func (d *Database) ResetBooks() error {
	if _, err := d.db.Exec(`DROP TABLE IF EXISTS books`); err != nil {
		return fmt.Errorf("drop books: %w", err)
	}
	if _, err := d.db.Exec(booksSchema); err != nil {
		return fmt.Errorf("recreate books: %w", err)
	}
	return nil
}
