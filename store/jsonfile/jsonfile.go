/*
Package jsonfile persists the drug list as a single pretty-printed JSON file.

PURPOSE:
  The household's whole dataset is a handful of records; a flat file that a
  person can read and hand-edit beats a database here. Rationals are written
  in their canonical "n/d" string form, so the file round-trips every
  quantity exactly (never as a float).

ATOMICITY:
  Save writes to a temporary file in the same directory and renames it over
  the target. Readers either see the old state or the new one, and a crash
  mid-write cannot corrupt the data file.

SEE ALSO:
  - store/sqlite: the database-backed alternative
  - reserve/store.go: the Persister interface this implements
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/medcabinet/reserve-engine/reserve"
)

// Store persists drugs at a fixed file path.
type Store struct {
	path string
}

// New returns a Store for the given path. The file must exist before the
// first Load; an empty list is `[]`.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads and decodes the whole drug list.
func (s *Store) Load(_ context.Context) ([]reserve.Drug, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	var drugs []reserve.Drug
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&drugs); err != nil {
		return nil, fmt.Errorf("decoding data file %s: %w", s.path, err)
	}
	return drugs, nil
}

// Save atomically replaces the data file with the given state.
func (s *Store) Save(_ context.Context, drugs []reserve.Drug) error {
	data, err := json.MarshalIndent(drugs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding drugs: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing data file: %w", err)
	}
	return nil
}
