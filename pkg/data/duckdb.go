package data

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// DefaultDBPath is the catalog database created in the working directory.
const DefaultDBPath = "bookbind.db"

const schema = `
CREATE TABLE IF NOT EXISTS books (
	name TEXT PRIMARY KEY,
	source_dir TEXT,
	clean_dir TEXT,
	epub_path TEXT,
	status TEXT,
	chapters INTEGER,
	updated_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS chapters (
	book_name TEXT,
	ordinal INTEGER,
	title TEXT,
	filename TEXT,
	images INTEGER,
	PRIMARY KEY (book_name, ordinal)
);
`

func InitDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

// Repository is the library catalog over a DuckDB database.
type Repository struct {
	db *sql.DB
}

func OpenRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) SaveBook(book *Book) error {
	_, err := r.db.Exec(`
		INSERT INTO books (name, source_dir, clean_dir, epub_path, status, chapters, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			source_dir = excluded.source_dir,
			clean_dir = excluded.clean_dir,
			epub_path = excluded.epub_path,
			status = excluded.status,
			chapters = excluded.chapters,
			updated_at = excluded.updated_at`,
		book.Name, book.SourceDir, book.CleanDir, book.EpubPath,
		book.Status, book.Chapters, book.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save book: %w", err)
	}
	return nil
}

func (r *Repository) GetBook(name string) (*Book, error) {
	row := r.db.QueryRow(`
		SELECT name, source_dir, clean_dir, epub_path, status, chapters, updated_at
		FROM books WHERE name = ?`, name)

	var book Book
	err := row.Scan(&book.Name, &book.SourceDir, &book.CleanDir, &book.EpubPath,
		&book.Status, &book.Chapters, &book.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

func (r *Repository) ListBooks() ([]*Book, error) {
	rows, err := r.db.Query(`
		SELECT name, source_dir, clean_dir, epub_path, status, chapters, updated_at
		FROM books ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var book Book
		if err := rows.Scan(&book.Name, &book.SourceDir, &book.CleanDir, &book.EpubPath,
			&book.Status, &book.Chapters, &book.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &book)
	}
	return books, rows.Err()
}

func (r *Repository) SaveChapter(chapter *Chapter) error {
	_, err := r.db.Exec(`
		INSERT INTO chapters (book_name, ordinal, title, filename, images)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (book_name, ordinal) DO UPDATE SET
			title = excluded.title,
			filename = excluded.filename,
			images = excluded.images`,
		chapter.BookName, chapter.Ordinal, chapter.Title, chapter.Filename, chapter.Images)
	if err != nil {
		return fmt.Errorf("failed to save chapter: %w", err)
	}
	return nil
}

func (r *Repository) GetChapters(bookName string) ([]*Chapter, error) {
	rows, err := r.db.Query(`
		SELECT book_name, ordinal, title, filename, images
		FROM chapters WHERE book_name = ? ORDER BY ordinal`, bookName)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	for rows.Next() {
		var ch Chapter
		if err := rows.Scan(&ch.BookName, &ch.Ordinal, &ch.Title, &ch.Filename, &ch.Images); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, &ch)
	}
	return chapters, rows.Err()
}

// UpdateBookEpub records a finished build for a book already in the catalog.
func (r *Repository) UpdateBookEpub(name, epubPath string) error {
	_, err := r.db.Exec(`
		UPDATE books SET epub_path = ?, status = 'built', updated_at = now()
		WHERE name = ?`, epubPath, name)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBook(name string) error {
	if _, err := r.db.Exec(`DELETE FROM chapters WHERE book_name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete chapters: %w", err)
	}
	if _, err := r.db.Exec(`DELETE FROM books WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}
