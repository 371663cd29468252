package library

import (
	"strconv"
	"strings"
)

// Comic is a single catalog item. AssignedTo holds the patron email while the
// comic is lent out and is empty otherwise.
type Comic struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Author     string `json:"author" yaml:"author"`
	Available  bool   `json:"available" yaml:"available"`
	AssignedTo string `json:"assigned_to" yaml:"assigned_to"`
}

// User represents a registered patron. Email is the natural key.
type User struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
}

// Fixed file headers. Existing data files depend on them byte for byte.
const (
	ComicsHeader = "id|titulo|autor|estado|asignadoA"
	UsersHeader  = "id|nombre|apellido|email|telefono"

	recordFields = 5
)

// numericID parses an id for ordering and id assignment.
func numericID(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	return n, err == nil
}

// padRow returns exactly recordFields fields, filling missing trailing ones
// with empty strings.
func padRow(row []string) []string {
	out := make([]string, recordFields)
	copy(out, row)
	return out
}

func comicFromRow(row []string) Comic {
	f := padRow(row)
	return Comic{
		ID:         f[0],
		Title:      f[1],
		Author:     f[2],
		Available:  strings.EqualFold(f[3], "true"),
		AssignedTo: f[4],
	}
}

func (c Comic) row() []string {
	return []string{c.ID, c.Title, c.Author, strconv.FormatBool(c.Available), c.AssignedTo}
}

func userFromRow(row []string) User {
	f := padRow(row)
	return User{ID: f[0], FirstName: f[1], LastName: f[2], Email: f[3], Phone: f[4]}
}

func (u User) row() []string {
	return []string{u.ID, u.FirstName, u.LastName, u.Email, u.Phone}
}
