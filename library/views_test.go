package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(comics []Comic) []string {
	out := make([]string, 0, len(comics))
	for _, c := range comics {
		out = append(out, c.ID)
	}
	return out
}

func TestSortedComics(t *testing.T) {
	s, _ := tempStore(t)
	s.reset([]Comic{
		{ID: "10", Title: "saga", Author: "Vaughan"},
		{ID: "2", Title: "Watchmen", Author: "Moore"},
		{ID: "3", Title: "V for Vendetta", Author: "Moore"},
		{ID: "2", Title: "Akira", Author: "Otomo"},
	}, nil)

	tests := []struct {
		key  SortKey
		want []string
	}{
		// Title order is case-sensitive: upper case sorts first.
		{SortByTitle, []string{"2", "3", "2", "10"}},
		{SortByAuthor, []string{"3", "2", "2", "10"}},
		// Same id keeps both records, in insertion order.
		{SortByID, []string{"2", "2", "3", "10"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got, err := s.SortedComics(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	byID, _ := s.SortedComics(SortByID)
	assert.Equal(t, "Watchmen", byID[0].Title)
	assert.Equal(t, "Akira", byID[1].Title)
}

func TestSortedComicsByIDRejectsNonNumeric(t *testing.T) {
	s, _ := tempStore(t)
	s.reset([]Comic{{ID: "1", Title: "A"}, {ID: "x", Title: "B"}}, nil)

	_, err := s.SortedComics(SortByID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := s.SortedComics(SortByTitle)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSortedComicsDoesNotTouchStore(t *testing.T) {
	s, _ := tempStore(t)
	s.reset([]Comic{{ID: "2", Title: "B"}, {ID: "1", Title: "A"}}, nil)

	_, err := s.SortedComics(SortByID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(s.Comics()))
}

func TestSortedUsers(t *testing.T) {
	s, _ := tempStore(t)
	s.reset(nil, []User{{ID: "1", Email: "zoe@x.com"}, {ID: "2", Email: "ana@x.com"}, {ID: "3", Email: "Bob@x.com"}})

	users := s.SortedUsers()
	require.Len(t, users, 3)
	assert.Equal(t, "Bob@x.com", users[0].Email)
	assert.Equal(t, "ana@x.com", users[1].Email)
	assert.Equal(t, "zoe@x.com", users[2].Email)
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortByTitle, "Title": SortByTitle, "AUTHOR": SortByAuthor, " id ": SortByID} {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortKey("date")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
