package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/AK2k30/npm-web-scrapper/internal/document"
)

const filePrefix = "scraped_data_"

var fileNameRe = regexp.MustCompile(`^scraped_data_[0-9a-f]{32}\.json$`)

// PersistenceError reports a failed read or write of a scraped document
type PersistenceError struct {
	Path string
	Op   string // write, read, parse, list
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewFileName returns scraped_data_<32 hex chars>.json
func NewFileName() string {
	return filePrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + ".json"
}

// IsScrapeFile reports whether name looks like a file written by Save
func IsScrapeFile(name string) bool {
	return fileNameRe.MatchString(name)
}

// Store keeps scraped documents as flat JSON files in one directory
type Store struct {
	dir string
}

// New creates a store rooted at dir
func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// Save writes doc to a new uniquely named file and returns its name. The
// file appears complete or not at all.
func (s *Store) Save(doc document.Value) (string, error) {
	name := NewFileName()
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+filePrefix+"*.tmp")
	if err != nil {
		return "", &PersistenceError{Path: path, Op: "write", Err: err}
	}
	tmpPath := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", &PersistenceError{Path: path, Op: "write", Err: err}
	}

	if _, err := tmp.Write(doc.Indent()); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", &PersistenceError{Path: path, Op: "write", Err: err}
	}

	zap.L().Debug("saved document", zap.String("path", path))
	return name, nil
}

// List returns the JSON files in the store directory, sorted by name.
// Hidden files such as the credentials file are skipped.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &PersistenceError{Path: s.dir, Op: "list", Err: err}
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Load reads and parses a document. A bare file name is resolved inside the
// store directory; anything with a path component is used as given.
func (s *Store) Load(name string) (document.Value, error) {
	path := name
	if filepath.Base(name) == name {
		path = filepath.Join(s.dir, name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return document.Value{}, &PersistenceError{Path: path, Op: "read", Err: err}
	}
	doc, err := document.Parse(data)
	if err != nil {
		return document.Value{}, &PersistenceError{Path: path, Op: "parse", Err: eris.Wrap(err, "storage: load")}
	}
	return doc, nil
}
