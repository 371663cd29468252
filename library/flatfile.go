package library

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const fieldSeparator = "|"

// FlatFile reads and writes pipe-delimited files that start with a fixed
// header line. Field values are never escaped, so they must not contain '|'.
type FlatFile struct {
	Header string
	log    zerolog.Logger
}

// NewFlatFile returns a FlatFile for the given header.
func NewFlatFile(header string, log zerolog.Logger) *FlatFile {
	return &FlatFile{Header: header, log: log}
}

// Load returns every line of the file split on '|', header included. A
// missing file is created holding only the header and yields no rows.
// Blank lines are skipped.
func (f *FlatFile) Load(path string) ([][]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		if err := f.Save(path, nil); err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		f.log.Info().Str("path", path).Msg("created empty data file")
		return [][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows := [][]string{}
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, fieldSeparator))
	}
	if err := sc.Err(); err != nil {
		return rows, fmt.Errorf("read %s: %w", path, err)
	}

	f.log.Debug().Str("path", path).Int("lines", len(rows)).Msg("data file loaded")
	return rows, nil
}

// Save replaces the file with the header followed by one line per row. The
// content goes to a temporary file in the same directory which is then
// renamed over path, so readers never observe a partial file.
func (f *FlatFile) Save(path string, rows [][]string) (err error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	mode := os.FileMode(0o644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	}
	f.removeStaleTemps(path)

	tmp, err := os.CreateTemp(dir, tempPattern(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err = w.WriteString(f.Header + "\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if _, err = w.WriteString(strings.Join(row, fieldSeparator) + "\n"); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	f.log.Debug().Str("path", path).Int("rows", len(rows)).Msg("data file written")
	return nil
}

func tempPattern(path string) string { return "." + filepath.Base(path) + ".*.tmp" }

// removeStaleTemps deletes temp files left by a save that never reached the
// rename, e.g. after the process was killed.
func (f *FlatFile) removeStaleTemps(path string) {
	stale, err := filepath.Glob(filepath.Join(filepath.Dir(path), tempPattern(path)))
	if err != nil {
		return
	}
	for _, name := range stale {
		if err := os.Remove(name); err == nil {
			f.log.Warn().Str("path", name).Msg("removed stale temp file")
		}
	}
}
