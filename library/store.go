package library

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Store is the in-memory owner of the comic and user collections. It is not
// safe for concurrent use.
//
// Reads hand out copies; records change only through RegisterComic,
// RegisterUser and LendComic. Nothing reaches disk until Save is called.
type Store struct {
	comics    []Comic
	users     map[string]User
	userOrder []string

	comicsPath string
	usersPath  string
	comicFile  *FlatFile
	userFile   *FlatFile

	lower cases.Caser
	log  zerolog.Logger
}

// NewStore returns an empty store bound to the given data files. Nothing is
// read from disk.
func NewStore(comicsPath, usersPath string, log zerolog.Logger) *Store {
	return &Store{
		users:      make(map[string]User),
		comicsPath: comicsPath,
		usersPath:  usersPath,
		comicFile:  NewFlatFile(ComicsHeader, log.With().Str("file", "comics").Logger()),
		userFile:   NewFlatFile(UsersHeader, log.With().Str("file", "users").Logger()),
		lower:      cases.Lower(language.Und),
		log:        log,
	}
}

// OpenStore builds a store from the data files. Load failures are logged and
// the store keeps whatever rows were read before the failure.
func OpenStore(comicsPath, usersPath string, log zerolog.Logger) *Store {
	s := NewStore(comicsPath, usersPath, log)

	rows, err := s.comicFile.Load(comicsPath)
	if err != nil {
		s.log.Error().Err(err).Str("path", comicsPath).Msg("loading comics failed, continuing with partial data")
	}
	s.loadComics(rows)

	rows, err = s.userFile.Load(usersPath)
	if err != nil {
		s.log.Error().Err(err).Str("path", usersPath).Msg("loading users failed, continuing with partial data")
	}
	s.loadUsers(rows)

	s.log.Info().Int("comics", len(s.comics)).Int("users", len(s.users)).Msg("catalog loaded")
	return s
}

// loadComics appends the rows after the header line.
func (s *Store) loadComics(rows [][]string) {
	for i, row := range rows {
		if i == 0 {
			continue
		}
		s.comics = append(s.comics, comicFromRow(row))
	}
}

// loadUsers inserts the rows after the header line. A repeated email keeps
// the last row but its first position.
func (s *Store) loadUsers(rows [][]string) {
	for i, row := range rows {
		if i == 0 {
			continue
		}
		s.putUser(userFromRow(row))
	}
}

func (s *Store) putUser(u User) {
	if _, ok := s.users[u.Email]; !ok {
		s.userOrder = append(s.userOrder, u.Email)
	}
	s.users[u.Email] = u
}

// reset swaps both collections wholesale.
func (s *Store) reset(comics []Comic, users []User) {
	s.comics = append([]Comic(nil), comics...)
	s.users = make(map[string]User, len(users))
	s.userOrder = nil
	for _, u := range users {
		s.putUser(u)
	}
}

// RegisterComic appends a new comic with the next free numeric id. A non-empty
// assignedEmail registers it as lent to that email; the email is not checked
// against the registered users.
func (s *Store) RegisterComic(title, author, assignedEmail string) Comic {
	maxID := 0
	for _, c := range s.comics {
		if n, ok := numericID(c.ID); ok && n > maxID {
			maxID = n
		}
	}

	c := Comic{
		ID:         strconv.Itoa(maxID + 1),
		Title:      title,
		Author:     author,
		Available:  assignedEmail == "",
		AssignedTo: assignedEmail,
	}
	s.comics = append(s.comics, c)

	s.log.Debug().Str("id", c.ID).Str("title", c.Title).Bool("available", c.Available).Msg("comic registered")
	return c
}

// RegisterUser stores u under its email with the next free id. The id field
// of u is ignored.
func (s *Store) RegisterUser(u User) (User, error) {
	if _, exists := s.users[u.Email]; exists {
		return User{}, &DuplicateEmailError{Email: u.Email}
	}

	next := 1
	for _, existing := range s.users {
		if n, ok := numericID(existing.ID); ok && n >= next {
			next = n + 1
		}
	}
	u.ID = strconv.Itoa(next)
	s.putUser(u)

	s.log.Debug().Str("id", u.ID).Str("email", u.Email).Msg("user registered")
	return u, nil
}

// FindComicByID returns the first comic whose id equals id exactly.
func (s *Store) FindComicByID(id string) (Comic, error) {
	for _, c := range s.comics {
		if c.ID == id {
			return c, nil
		}
	}
	return Comic{}, &ComicNotFoundError{Field: "id", Value: id}
}

// FindComicByTitle returns the first comic whose title matches ignoring case.
func (s *Store) FindComicByTitle(title string) (Comic, error) {
	i := s.indexByTitle(title)
	if i < 0 {
		return Comic{}, &ComicNotFoundError{Field: "title", Value: title}
	}
	return s.comics[i], nil
}

func (s *Store) indexByTitle(title string) int {
	for i, c := range s.comics {
		if strings.EqualFold(c.Title, title) {
			return i
		}
	}
	return -1
}

// SearchComicsByTitle returns comics whose title contains fragment, ignoring case.
func (s *Store) SearchComicsByTitle(fragment string) []Comic {
	return s.filter(func(c Comic) bool { return s.containsFold(c.Title, fragment) })
}

// SearchComicsByAuthor returns comics whose author contains fragment, ignoring case.
func (s *Store) SearchComicsByAuthor(fragment string) []Comic {
	return s.filter(func(c Comic) bool { return s.containsFold(c.Author, fragment) })
}

// ComicsByAuthor returns comics whose author equals author, ignoring case.
func (s *Store) ComicsByAuthor(author string) []Comic {
	return s.filter(func(c Comic) bool { return strings.EqualFold(c.Author, author) })
}

// containsFold lower-cases rune by rune, so "ß" never matches "ss".
func (s *Store) containsFold(value, fragment string) bool {
	return strings.Contains(s.lower.String(value), s.lower.String(fragment))
}

func (s *Store) filter(match func(Comic) bool) []Comic {
	out := []Comic{}
	for _, c := range s.comics {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}

// LendComic marks the first comic matching title as lent to patronEmail.
// Whether patronEmail is a registered user is the caller's concern.
func (s *Store) LendComic(title, patronEmail string) error {
	i := s.indexByTitle(title)
	if i < 0 {
		return &ComicNotFoundError{Field: "title", Value: title}
	}
	c := &s.comics[i]
	if !c.Available {
		return &ComicAlreadyLentError{Title: c.Title, AssignedTo: c.AssignedTo}
	}
	c.Available = false
	c.AssignedTo = patronEmail

	s.log.Info().Str("id", c.ID).Str("title", c.Title).Str("patron", patronEmail).Msg("comic lent")
	return nil
}

// UserByEmail looks up a user by exact email.
func (s *Store) UserByEmail(email string) (User, bool) {
	u, ok := s.users[email]
	return u, ok
}

// Comics returns a copy of all comics in insertion order.
func (s *Store) Comics() []Comic {
	return append([]Comic{}, s.comics...)
}

// Users returns a copy of all users in insertion order.
func (s *Store) Users() []User {
	out := make([]User, 0, len(s.userOrder))
	for _, email := range s.userOrder {
		out = append(out, s.users[email])
	}
	return out
}

// Save writes both collections to their files. Both writes are attempted even
// if the first one fails.
func (s *Store) Save() error {
	comicRows := make([][]string, 0, len(s.comics))
	for _, c := range s.comics {
		comicRows = append(comicRows, c.row())
	}
	userRows := make([][]string, 0, len(s.userOrder))
	for _, u := range s.Users() {
		userRows = append(userRows, u.row())
	}

	var errs []error
	if err := s.comicFile.Save(s.comicsPath, comicRows); err != nil {
		s.log.Error().Err(err).Str("path", s.comicsPath).Msg("saving comics failed")
		errs = append(errs, err)
	}
	if err := s.userFile.Save(s.usersPath, userRows); err != nil {
		s.log.Error().Err(err).Str("path", s.usersPath).Msg("saving users failed")
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.log.Info().Int("comics", len(comicRows)).Int("users", len(userRows)).Msg("catalog saved")
	return nil
}
