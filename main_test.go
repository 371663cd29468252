package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comic-collector/library"
)

// execute runs the command tree against a fresh data directory.
func execute(t *testing.T, dataDir, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func testEnv(t *testing.T) string {
	t.Helper()
	work := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("COMICSTORE_LOG_OUTPUT", "discard")
	return filepath.Join(work, "data")
}

func TestCommandsAddAndLend(t *testing.T) {
	dir := testEnv(t)

	out, err := execute(t, dir, "", "users", "add", "--first", "Ana", "--last", "Diaz", "--email", "ana@x.com", "--phone", "5551234")
	require.NoError(t, err)
	assert.Contains(t, out, "Added user ID 1.")

	out, err = execute(t, dir, "", "comics", "add", "--title", "Saga", "--author", "Vaughan")
	require.NoError(t, err)
	assert.Contains(t, out, "Added comic ID 1.")

	_, err = execute(t, dir, "", "comics", "lend", "--email", "ghost@x.com", "--id", "1")
	assert.ErrorIs(t, err, library.ErrNotFound)

	_, err = execute(t, dir, "", "comics", "lend", "--email", "ana@x.com", "--id", "1")
	require.NoError(t, err)

	_, err = execute(t, dir, "", "comics", "lend", "--email", "ana@x.com", "--title", "saga")
	assert.ErrorIs(t, err, library.ErrAlreadyLent)

	raw, err := os.ReadFile(filepath.Join(dir, "comics.csv"))
	require.NoError(t, err)
	assert.Equal(t, library.ComicsHeader+"\n1|Saga|Vaughan|false|ana@x.com\n", string(raw))
}

func TestCommandsListAsJSON(t *testing.T) {
	dir := testEnv(t)
	for _, title := range []string{"Watchmen", "Maus"} {
		_, err := execute(t, dir, "", "comics", "add", "--title", title, "--author", "Someone")
		require.NoError(t, err)
	}

	out, err := execute(t, dir, "", "-o", "json", "comics", "list", "--sort", "title")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Maus"), strings.Index(out, "Watchmen"))
	assert.Contains(t, out, `"available": true`)

	out, err = execute(t, dir, "", "-o", "json", "comics", "search", "--by", "id", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Maus")
	assert.NotContains(t, out, "Watchmen")

	_, err = execute(t, dir, "", "comics", "list", "--sort", "price")
	assert.ErrorIs(t, err, library.ErrInvalidInput)
}

func TestCommandsExportRestore(t *testing.T) {
	dir := testEnv(t)
	_, err := execute(t, dir, "", "comics", "add", "--title", "Saga", "--author", "Vaughan")
	require.NoError(t, err)

	out, err := execute(t, dir, "", "export")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "comics.db"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "comics.csv"), []byte(library.ComicsHeader+"\n"), 0o644))
	_, err = execute(t, dir, "", "restore")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "comics.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "1|Saga|Vaughan|true|")

	_, err = execute(t, dir, "", "restore", "--db", filepath.Join(dir, "nope.db"))
	assert.Error(t, err)
}

func TestCommandsSearchMirror(t *testing.T) {
	dir := testEnv(t)
	_, err := execute(t, dir, "", "comics", "add", "--title", "Watchmen", "--author", "Alan Moore")
	require.NoError(t, err)
	_, err = execute(t, dir, "", "export")
	require.NoError(t, err)

	out, err := execute(t, dir, "", "-o", "json", "comics", "search", "--db", filepath.Join(dir, "comics.db"), "moore")
	require.NoError(t, err)
	assert.Contains(t, out, "Watchmen")

	_, err = execute(t, dir, "", "comics", "search", "--db", filepath.Join(dir, "other.db"), "moore")
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestRootRunsMenu(t *testing.T) {
	dir := testEnv(t)
	out, err := execute(t, dir, "7\nSaga\nVaughan\n\n8\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Comic registered with ID 1.")
	assert.Contains(t, out, "Data saved. Goodbye!")

	raw, err := os.ReadFile(filepath.Join(dir, "comics.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "1|Saga|Vaughan|true|")
}

func TestRootMenuStopsOnInterrupt(t *testing.T) {
	dir := testEnv(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	out := &syncBuffer{}
	root := newRootCmd(pr, out)
	root.SetArgs([]string{"--data-dir", dir})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, root.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "Interrupted, leaving without saving.")

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

// syncBuffer guards a buffer shared with the menu goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
