package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReplaceCatalogKeepsOrderAndDuplicateIDs(t *testing.T) {
	db := tempDB(t)
	comics := []Comic{
		{ID: "3", Title: "Maus", Author: "Spiegelman", Available: false, AssignedTo: "a@x.com"},
		{ID: "1", Title: "Saga", Author: "Vaughan", Available: true},
		{ID: "1", Title: "Saga", Author: "Vaughan", Available: true},
	}
	users := []User{
		{ID: "2", FirstName: "Bo", LastName: "Li", Email: "bo@x.com", Phone: "5554321"},
		{ID: "1", FirstName: "Ana", LastName: "Diaz", Email: "ana@x.com", Phone: "5551234"},
	}
	require.NoError(t, db.ReplaceCatalog(comics, users))

	gotComics, err := db.Comics()
	require.NoError(t, err)
	assert.Equal(t, comics, gotComics)

	gotUsers, err := db.Users()
	require.NoError(t, err)
	assert.Equal(t, users, gotUsers)

	// A second replace drops the previous rows.
	require.NoError(t, db.ReplaceCatalog(comics[:1], nil))
	gotComics, err = db.Comics()
	require.NoError(t, err)
	assert.Len(t, gotComics, 1)
	gotUsers, err = db.Users()
	require.NoError(t, err)
	assert.Empty(t, gotUsers)
}

func TestDatabaseSearchComics(t *testing.T) {
	db := tempDB(t)
	require.NoError(t, db.ReplaceCatalog([]Comic{
		{ID: "1", Title: "Watchmen", Author: "Alan Moore", Available: true},
		{ID: "2", Title: "Saga", Author: "Brian K. Vaughan", Available: true},
	}, nil))

	res, err := db.SearchComics("moore")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Watchmen", res[0].Title)

	res, err = db.SearchComics("  ")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "again.db")
	db, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.ReplaceCatalog([]Comic{{ID: "1", Title: "Saga", Author: "Vaughan", Available: true}}, nil))
	require.NoError(t, db.Close())

	db, err = NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()
	comics, err := db.Comics()
	require.NoError(t, err)
	assert.Len(t, comics, 1)
}

func TestExportAndRestoreSQLite(t *testing.T) {
	mgr, dir := newManager(t)
	_, err := mgr.AddUser("Ana", "Diaz", "ana@x.com", "5551234")
	require.NoError(t, err)
	_, err = mgr.AddComic("Saga", "Vaughan", "ana@x.com")
	require.NoError(t, err)

	dbPath := filepath.Join(dir, "mirror.db")
	require.NoError(t, mgr.ExportSQLite(dbPath))

	// Drop the comics file, then restore both files from the mirror.
	require.NoError(t, os.Remove(filepath.Join(dir, "comics.csv")))
	fresh := NewLibraryManager(filepath.Join(dir, "comics.csv"), filepath.Join(dir, "usuarios.csv"), mgr.log)
	assert.Empty(t, fresh.GetAllComics())

	require.NoError(t, fresh.RestoreSQLite(dbPath))
	assert.Equal(t, mgr.GetAllComics(), fresh.GetAllComics())

	raw, err := os.ReadFile(filepath.Join(dir, "comics.csv"))
	require.NoError(t, err)
	assert.Equal(t, ComicsHeader+"\n1|Saga|Vaughan|false|ana@x.com\n", string(raw))
}

func TestRestoreSQLiteMissingDatabase(t *testing.T) {
	mgr, dir := newManager(t)
	_, err := mgr.AddComic("Saga", "Vaughan", "")
	require.NoError(t, err)

	err = mgr.RestoreSQLite(filepath.Join(dir, "missing.db"))
	assert.True(t, IsNotFound(err))
	assert.Len(t, mgr.GetAllComics(), 1)
}

func TestSearchMirror(t *testing.T) {
	mgr, dir := newManager(t)
	_, err := mgr.AddComic("Watchmen", "Alan Moore", "")
	require.NoError(t, err)
	_, err = mgr.AddComic("Saga", "Brian K. Vaughan", "")
	require.NoError(t, err)

	dbPath := filepath.Join(dir, "mirror.db")
	_, err = mgr.SearchMirror(dbPath, "moore")
	assert.True(t, IsNotFound(err))
	assert.NoFileExists(t, dbPath)

	require.NoError(t, mgr.ExportSQLite(dbPath))
	found, err := mgr.SearchMirror(dbPath, "VAUGHAN")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Saga", found[0].Title)
}
