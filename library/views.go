package library

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the ordering of SortedComics.
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByAuthor SortKey = "author"
	SortByID     SortKey = "id"
)

// ParseSortKey accepts "title", "author" or "id" in any case.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByTitle, SortByAuthor, SortByID:
		return k, nil
	case "":
		return SortByTitle, nil
	default:
		return "", &ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort key %q", s)}
	}
}

// SortedComics returns every comic stably sorted by key. Records that compare
// equal are all kept. SortByID fails if any id is not numeric.
func (s *Store) SortedComics(by SortKey) ([]Comic, error) {
	return sortComics(s.Comics(), by)
}

func sortComics(comics []Comic, by SortKey) ([]Comic, error) {
	switch by {
	case SortByTitle, "":
		slices.SortStableFunc(comics, func(a, b Comic) int { return strings.Compare(a.Title, b.Title) })
	case SortByAuthor:
		slices.SortStableFunc(comics, func(a, b Comic) int {
			return cmp.Or(strings.Compare(a.Author, b.Author), strings.Compare(a.Title, b.Title))
		})
	case SortByID:
		ids := make(map[string]int, len(comics))
		for _, c := range comics {
			n, ok := numericID(c.ID)
			if !ok {
				return nil, fmt.Errorf("sort by id: comic %q has non-numeric id %q: %w", c.Title, c.ID, ErrInvalidInput)
			}
			ids[c.ID] = n
		}
		slices.SortStableFunc(comics, func(a, b Comic) int { return cmp.Compare(ids[a.ID], ids[b.ID]) })
	default:
		return nil, &ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort key %q", by)}
	}
	return comics, nil
}

// SortedUsers returns every user ordered by email.
func (s *Store) SortedUsers() []User {
	users := s.Users()
	slices.SortStableFunc(users, func(a, b User) int { return strings.Compare(a.Email, b.Email) })
	return users
}
