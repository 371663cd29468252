package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Database is an SQLite mirror of the catalog, used for exports and ad-hoc
// queries. The flat files stay authoritative.
type Database struct {
	db *sqlx.DB
}

type comicRow struct {
	Position   int    `db:"position"`
	ID         string `db:"id"`
	Title      string `db:"title"`
	Author     string `db:"author"`
	Available  bool   `db:"available"`
	AssignedTo string `db:"assigned_to"`
}

type userRow struct {
	Position  int    `db:"position"`
	ID        string `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
}

// NewDatabase opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db}, nil
}

// Close closes the DB.
func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sqlx.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.Get(&current, `SELECT value FROM meta WHERE key='schema_version';`)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Comic ids are not unique in malformed data, so position is the key.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS comics (
            position INTEGER PRIMARY KEY,
            id TEXT NOT NULL,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1,
            assigned_to TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS users (
            position INTEGER PRIMARY KEY,
            id TEXT NOT NULL,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            phone TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_comics_title ON comics(title COLLATE NOCASE);`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		var err error
		if strings.Contains(stmt, "?") {
			_, err = tx.Exec(stmt, schemaVersion)
		} else {
			_, err = tx.Exec(stmt)
		}
		if err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ReplaceCatalog overwrites both tables with the given records in one
// transaction, keeping their order.
func (d *Database) ReplaceCatalog(comics []Comic, users []User) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comics`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return err
	}

	for i, c := range comics {
		row := comicRow{Position: i, ID: c.ID, Title: c.Title, Author: c.Author, Available: c.Available, AssignedTo: c.AssignedTo}
		if _, err := tx.NamedExec(`INSERT INTO comics(position,id,title,author,available,assigned_to)
            VALUES(:position,:id,:title,:author,:available,:assigned_to)`, row); err != nil {
			return fmt.Errorf("insert comic %s: %w", c.ID, err)
		}
	}
	for i, u := range users {
		row := userRow{Position: i, ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone}
		if _, err := tx.NamedExec(`INSERT INTO users(position,id,first_name,last_name,email,phone)
            VALUES(:position,:id,:first_name,:last_name,:email,:phone)`, row); err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
	}
	return tx.Commit()
}

// Comics returns the mirrored comics in catalog order.
func (d *Database) Comics() ([]Comic, error) {
	return d.selectComics(`SELECT position,id,title,author,available,assigned_to FROM comics ORDER BY position`)
}

// SearchComics matches q against title and author, ignoring ASCII case.
func (d *Database) SearchComics(q string) ([]Comic, error) {
	if strings.TrimSpace(q) == "" {
		return []Comic{}, nil
	}
	pattern := "%" + q + "%"
	return d.selectComics(`
        SELECT position,id,title,author,available,assigned_to FROM comics
        WHERE title LIKE ? OR author LIKE ?
        ORDER BY position`, pattern, pattern)
}

func (d *Database) selectComics(query string, args ...any) ([]Comic, error) {
	var rows []comicRow
	if err := d.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	comics := make([]Comic, 0, len(rows))
	for _, r := range rows {
		comics = append(comics, Comic{ID: r.ID, Title: r.Title, Author: r.Author, Available: r.Available, AssignedTo: r.AssignedTo})
	}
	return comics, nil
}

// Users returns the mirrored users in catalog order.
func (d *Database) Users() ([]User, error) {
	var rows []userRow
	if err := d.db.Select(&rows, `SELECT position,id,first_name,last_name,email,phone FROM users ORDER BY position`); err != nil {
		return nil, err
	}
	users := make([]User, 0, len(rows))
	for _, r := range rows {
		users = append(users, User{ID: r.ID, FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Phone: r.Phone})
	}
	return users, nil
}
