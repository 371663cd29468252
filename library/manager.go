package library

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// LibraryManager is a thin façade over the Store that performs the checks the
// store leaves to its callers: input validation and patron existence.
type LibraryManager struct {
	store    *Store
	validate *Validator
	log      zerolog.Logger
}

// NewLibraryManager loads the catalog from the two data files.
func NewLibraryManager(comicsPath, usersPath string, log zerolog.Logger) *LibraryManager {
	return &LibraryManager{
		store:    OpenStore(comicsPath, usersPath, log),
		validate: NewValidator(),
		log:      log,
	}
}

// Store exposes the underlying catalog store.
func (lm *LibraryManager) Store() *Store { return lm.store }

// Validator exposes the input rules so prompts can re-ask per field.
func (lm *LibraryManager) Validator() *Validator { return lm.validate }

// Save writes the catalog to disk.
func (lm *LibraryManager) Save() error { return lm.store.Save() }

// ------------------ Comic helpers ------------------

// AddComic registers a comic. An assignTo email that does not belong to a
// registered user is dropped and the comic is registered as available.
func (lm *LibraryManager) AddComic(title, author, assignTo string) (Comic, error) {
	in := ComicInput{Title: title, Author: author, AssignedTo: assignTo}
	if err := lm.validate.Comic(&in); err != nil {
		return Comic{}, err
	}
	if in.AssignedTo != "" {
		if _, ok := lm.store.UserByEmail(in.AssignedTo); !ok {
			lm.log.Warn().Str("email", in.AssignedTo).Str("title", in.Title).
				Msg("assignee is not a registered user, registering comic as available")
			in.AssignedTo = ""
		}
	}
	return lm.store.RegisterComic(in.Title, in.Author, in.AssignedTo), nil
}

func (lm *LibraryManager) GetComic(id string) (Comic, error) { return lm.store.FindComicByID(id) }
func (lm *LibraryManager) GetAllComics() []Comic            { return lm.store.Comics() }

// ListComics returns every comic sorted by key.
func (lm *LibraryManager) ListComics(key SortKey) ([]Comic, error) {
	return lm.store.SortedComics(key)
}

// ------------------ Member helpers ------------------

// AddUser validates and registers a patron.
func (lm *LibraryManager) AddUser(firstName, lastName, email, phone string) (User, error) {
	in := UserInput{FirstName: firstName, LastName: lastName, Email: email, Phone: phone}
	if err := lm.validate.User(&in); err != nil {
		return User{}, err
	}
	return lm.store.RegisterUser(User{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Phone: in.Phone})
}

func (lm *LibraryManager) GetUser(email string) (User, bool) { return lm.store.UserByEmail(email) }
func (lm *LibraryManager) ListUsers() []User                 { return lm.store.SortedUsers() }

// ------------------ Search ------------------

// SearchComics looks comics up by id (exact), title or author (fragments,
// ignoring case) and returns them sorted for display.
func (lm *LibraryManager) SearchComics(by SortKey, query string) ([]Comic, error) {
	var found []Comic
	switch by {
	case SortByID:
		c, err := lm.store.FindComicByID(query)
		if err != nil {
			return []Comic{}, nil
		}
		found = []Comic{c}
	case SortByTitle:
		found = lm.store.SearchComicsByTitle(query)
	case SortByAuthor:
		found = lm.store.SearchComicsByAuthor(query)
	default:
		return nil, &ValidationError{Field: "search", Message: fmt.Sprintf("unknown criterion %q", by)}
	}
	return sortComics(found, by)
}

// ------------------ Circulation ------------------

// LendComic lends the comic titled title to a registered patron.
func (lm *LibraryManager) LendComic(title, email string) error {
	email = strings.TrimSpace(email)
	if _, ok := lm.store.UserByEmail(email); !ok {
		return &UnknownPatronError{Email: email}
	}
	return lm.store.LendComic(title, email)
}

// LendComicByID resolves the comic by id and lends it by its title, so when
// several comics share that title the first one is the one lent.
func (lm *LibraryManager) LendComicByID(id, email string) error {
	c, err := lm.store.FindComicByID(id)
	if err != nil {
		return err
	}
	if !c.Available {
		return &ComicAlreadyLentError{Title: c.Title, AssignedTo: c.AssignedTo}
	}
	return lm.LendComic(c.Title, email)
}

// ------------------ SQLite mirror ------------------

// ExportSQLite copies the current catalog into the SQLite database at dbPath.
func (lm *LibraryManager) ExportSQLite(dbPath string) error {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	comics, users := lm.store.Comics(), lm.store.Users()
	if err := db.ReplaceCatalog(comics, users); err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}
	lm.log.Info().Str("db", dbPath).Int("comics", len(comics)).Int("users", len(users)).Msg("catalog exported")
	return nil
}

// RestoreSQLite replaces the catalog with the contents of the SQLite database
// at dbPath and writes it to the data files.
func (lm *LibraryManager) RestoreSQLite(dbPath string) error {
	db, err := openExisting(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	comics, err := db.Comics()
	if err != nil {
		return fmt.Errorf("read comics: %w", err)
	}
	users, err := db.Users()
	if err != nil {
		return fmt.Errorf("read users: %w", err)
	}
	lm.store.reset(comics, users)
	lm.log.Info().Str("db", dbPath).Int("comics", len(comics)).Int("users", len(users)).Msg("catalog restored")
	return lm.store.Save()
}

// SearchMirror matches q against title and author in the SQLite database at
// dbPath, in mirrored catalog order.
func (lm *LibraryManager) SearchMirror(dbPath, q string) ([]Comic, error) {
	db, err := openExisting(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.SearchComics(q)
}

// openExisting opens a mirror without creating it.
func openExisting(dbPath string) (*Database, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open mirror %s: %w", dbPath, ErrNotFound)
		}
		return nil, err
	}
	return NewDatabase(dbPath)
}

// ------------------ Utilities ------------------

// PrettyComic formats a comic for lists.
func PrettyComic(c Comic) string {
	status := "Available"
	if !c.Available {
		assignee := c.AssignedTo
		if assignee == "" {
			assignee = "-"
		}
		status = "Lent to: " + assignee
	}
	return fmt.Sprintf("Id: %s, Title: %s, Author: %s, Status: %s", c.ID, c.Title, c.Author, status)
}

// PrettyUser formats a user for lists.
func PrettyUser(u User) string {
	return fmt.Sprintf("Id: %s, First name: %s, Last name: %s, Email: %s, Phone: %s",
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone)
}

// ContainsTitle reports whether comics holds one titled title, ignoring case.
func ContainsTitle(comics []Comic, title string) bool {
	return slices.ContainsFunc(comics, func(c Comic) bool { return strings.EqualFold(c.Title, title) })
}
