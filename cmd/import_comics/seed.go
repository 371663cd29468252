package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"comic-collector/library"
)

// seedComic is one entry of a seed file.
type seedComic struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

// starterCatalog is used when no seed file is given.
var starterCatalog = []seedComic{
	{"Watchmen", "Alan Moore"},
	{"V for Vendetta", "Alan Moore"},
	{"Maus", "Art Spiegelman"},
	{"Saga", "Brian K. Vaughan"},
	{"The Sandman", "Neil Gaiman"},
	{"Persepolis", "Marjane Satrapi"},
	{"Batman: Year One", "Frank Miller"},
	{"The Dark Knight Returns", "Frank Miller"},
	{"Bone", "Jeff Smith"},
	{"Akira", "Katsuhiro Otomo"},
	{"Mafalda", "Quino"},
	{"Condorito", "Pepo"},
}

// loadSeed reads a YAML list of {title, author} entries.
func loadSeed(path string) ([]seedComic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed []seedComic
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

type importResult struct {
	Added, Skipped, Failed int
}

// importComics registers every seed entry whose title is not already in the
// catalog. Titles match ignoring case.
func importComics(mgr *library.LibraryManager, seed []seedComic, report func(format string, args ...any)) importResult {
	var res importResult
	for _, s := range seed {
		if library.ContainsTitle(mgr.GetAllComics(), s.Title) {
			report("Skipping %s: already in the catalog\n", s.Title)
			res.Skipped++
			continue
		}
		c, err := mgr.AddComic(s.Title, s.Author, "")
		if err != nil {
			report("ERROR importing %q: %v\n", s.Title, err)
			res.Failed++
			continue
		}
		report("Imported %s by %s (ID: %s)\n", c.Title, c.Author, c.ID)
		res.Added++
	}
	return res
}
