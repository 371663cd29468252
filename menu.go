package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"comic-collector/library"
)

// menu is the interactive catalog console.
type menu struct {
	sc     *bufio.Scanner
	out    io.Writer
	mgr    *library.LibraryManager
	banner bool

	// saving is set once option 8 starts writing the data files.
	saving atomic.Bool
}

func newMenu(in io.Reader, out io.Writer, mgr *library.LibraryManager, banner bool) *menu {
	return &menu{sc: bufio.NewScanner(in), out: out, mgr: mgr, banner: banner}
}

func (m *menu) printf(format string, args ...any) { fmt.Fprintf(m.out, format, args...) }
func (m *menu) println(args ...any)               { fmt.Fprintln(m.out, args...) }

// readLine prompts and returns the trimmed answer. ok is false at end of input.
func (m *menu) readLine(prompt string) (string, bool) {
	m.printf("%s", prompt)
	if !m.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.sc.Text()), true
}

// readChoice reads a numeric answer. A non-number yields -1.
func (m *menu) readChoice(prompt string) (int, bool) {
	line, ok := m.readLine(prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		m.println("Error: enter a number.")
		return -1, true
	}
	return n, true
}

// Run loops until option 8 or end of input. It reports whether the catalog
// was saved.
func (m *menu) Run() (saved bool, err error) {
	if m.banner {
		m.println("Welcome to the Comic Collector lending library!")
	}
	for {
		m.println()
		m.println("--- Library menu ---")
		m.println("1. Show comics")
		m.println("2. Show users")
		m.println("3. Search comic")
		m.println("4. Lend comic")
		m.println("5. Register user")
		m.println("7. Register comic")
		m.println("8. Save and exit")
		opt, ok := m.readChoice("Select an option: ")
		if !ok {
			m.println()
			m.println("End of input, leaving without saving.")
			return false, nil
		}

		switch opt {
		case -1:
		case 1:
			ok = m.handleShowComics()
		case 2:
			m.handleShowUsers()
		case 3:
			ok = m.handleSearch()
		case 4:
			ok = m.handleLend()
		case 5:
			ok = m.handleRegisterUser()
		case 7:
			ok = m.handleRegisterComic()
		case 8:
			m.saving.Store(true)
			if err := m.mgr.Save(); err != nil {
				return false, fmt.Errorf("save catalog: %w", err)
			}
			m.println("Data saved. Goodbye!")
			return true, nil
		default:
			m.println("Invalid option.")
		}
		if !ok {
			m.println()
			m.println("End of input, leaving without saving.")
			return false, nil
		}
	}
}

// askSortKey re-prompts until the answer is 1, 2 or 3.
func (m *menu) askSortKey() (library.SortKey, bool) {
	for {
		m.println("Sort by:")
		m.println("1. Title")
		m.println("2. Author")
		m.println("3. ID")
		opt, ok := m.readChoice("Select an option: ")
		if !ok {
			return "", false
		}
		switch opt {
		case 1:
			return library.SortByTitle, true
		case 2:
			return library.SortByAuthor, true
		case 3:
			return library.SortByID, true
		case -1:
		default:
			m.println("Invalid option.")
		}
	}
}

func (m *menu) handleShowComics() bool {
	key, ok := m.askSortKey()
	if !ok {
		return false
	}
	comics, err := m.mgr.ListComics(key)
	if err != nil {
		m.printf("Error: %v\n", err)
		return true
	}
	if len(comics) == 0 {
		m.println("No comics in the catalog.")
		return true
	}
	for _, c := range comics {
		m.println(library.PrettyComic(c))
	}
	return true
}

func (m *menu) handleShowUsers() {
	users := m.mgr.ListUsers()
	if len(users) == 0 {
		m.println("No users registered.")
		return
	}
	for _, u := range users {
		m.println(library.PrettyUser(u))
	}
}

func (m *menu) handleSearch() bool {
	m.println("Search comic by:")
	m.println("1. ID")
	m.println("2. Title")
	m.println("3. Author")
	opt, ok := m.readChoice("Select an option: ")
	if !ok {
		return false
	}

	var by library.SortKey
	var prompt string
	switch opt {
	case 1:
		by, prompt = library.SortByID, "Comic ID: "
	case 2:
		by, prompt = library.SortByTitle, "Comic title: "
	case 3:
		by, prompt = library.SortByAuthor, "Comic author: "
	default:
		m.println("No comics matched the search.")
		return true
	}

	query, ok := m.readLine(prompt)
	if !ok {
		return false
	}
	found, err := m.mgr.SearchComics(by, query)
	if err != nil {
		m.printf("Error: %v\n", err)
		return true
	}
	if len(found) == 0 {
		m.println("No comics matched the search.")
		return true
	}
	m.printf("Found %d comic(s):\n", len(found))
	for _, c := range found {
		m.println(library.PrettyComic(c))
	}
	return true
}

func (m *menu) handleLend() bool {
	m.println()
	m.println("--- Lend comic ---")
	m.println("Show the comic list first?")
	m.println("1. Yes")
	m.println("2. No")
	opt, ok := m.readChoice("Select an option: ")
	if !ok {
		return false
	}
	if opt == 1 && !m.handleShowComics() {
		return false
	}

	m.println("Find the comic to lend by:")
	m.println("1. ID")
	m.println("2. Title")
	opt, ok = m.readChoice("Select an option: ")
	if !ok {
		return false
	}

	var c library.Comic
	var err error
	switch opt {
	case 1:
		id, ok := m.readLine("Comic ID to lend: ")
		if !ok {
			return false
		}
		c, err = m.mgr.GetComic(id)
	case 2:
		title, ok := m.readLine("Comic title to lend: ")
		if !ok {
			return false
		}
		c, err = m.mgr.Store().FindComicByTitle(title)
	case -1:
		return true
	default:
		m.println("Invalid option.")
		return true
	}
	if err != nil {
		m.printf("Error: %v\n", err)
		return true
	}
	if !c.Available {
		m.printf("Comic already lent: %s\n", c.Title)
		return true
	}

	email, ok := m.readLine("Email of the borrowing user: ")
	if !ok {
		return false
	}
	if err := m.mgr.LendComic(c.Title, email); err != nil {
		if library.IsNotFound(err) {
			m.println("Error: that email does not belong to a registered user.")
			return true
		}
		m.printf("Error: %v\n", err)
		return true
	}
	m.printf("Lent %q to %s.\n", c.Title, strings.TrimSpace(email))
	return true
}

// askValid re-prompts until check accepts the answer.
func (m *menu) askValid(prompt string, check func(string) error) (string, bool) {
	for {
		value, ok := m.readLine(prompt)
		if !ok {
			return "", false
		}
		if err := check(value); err != nil {
			m.printf("Error: %v\n", err)
			continue
		}
		return value, true
	}
}

func (m *menu) handleRegisterUser() bool {
	v := m.mgr.Validator()
	first, ok := m.askValid("First name: ", func(s string) error { return v.Field("first name", s) })
	if !ok {
		return false
	}
	last, ok := m.askValid("Last name: ", func(s string) error { return v.Field("last name", s) })
	if !ok {
		return false
	}
	email, ok := m.askValid("Email: ", v.Email)
	if !ok {
		return false
	}
	phone, ok := m.askValid("Phone: ", v.Phone)
	if !ok {
		return false
	}

	u, err := m.mgr.AddUser(first, last, email, phone)
	if err != nil {
		m.printf("Error: %v\n", err)
		return true
	}
	m.printf("User registered with ID %s.\n", u.ID)
	return true
}

func (m *menu) handleRegisterComic() bool {
	v := m.mgr.Validator()
	title, ok := m.askValid("Title: ", func(s string) error { return v.Field("title", s) })
	if !ok {
		return false
	}
	author, ok := m.askValid("Author: ", func(s string) error { return v.Field("author", s) })
	if !ok {
		return false
	}
	assign, ok := m.readLine("Assigned to (email, leave empty if available): ")
	if !ok {
		return false
	}
	if assign != "" {
		if _, known := m.mgr.GetUser(assign); !known {
			m.println("Error: that email does not belong to a registered user. The comic will be registered as available.")
		}
	}

	c, err := m.mgr.AddComic(title, author, assign)
	if err != nil {
		m.printf("Error: %v\n", err)
		return true
	}
	m.printf("Comic registered with ID %s.\n", c.ID)
	return true
}
