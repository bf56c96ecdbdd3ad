package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v6"
)

// Store persists tables as CSV files on a billy filesystem: a header row
// naming the columns, then one record per row. Production code mounts an
// osfs on the data directory; tests use memfs.
type Store struct {
	fs billy.Filesystem
}

// NewStore returns a store rooted at fs.
func NewStore(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// Load reads the table stored at path. A missing file is first created
// holding only the schema header, so Load doubles as an idempotent
// bootstrap on first start.
func (s *Store) Load(path string, schema []string) (*Table, error) {
	if _, err := s.fs.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.Save(path, New(schema...)); err != nil {
			return nil, fmt.Errorf("while bootstrapping %s: %w", path, err)
		}
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening %s: %w", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("while reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return New(schema...), nil
	}
	t := New(records[0]...)
	t.rows = records[1:]
	return t, nil
}

// Save overwrites path with the full contents of t. The write goes
// through a temporary file and a rename so a failure never truncates the
// previous contents.
func (s *Store) Save(path string, t *Table) error {
	tmp := path + ".tmp"
	f, err := s.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("while creating %s: %w", tmp, err)
	}
	w := csv.NewWriter(f)
	err = w.Write(t.columns)
	for _, row := range t.rows {
		if err != nil {
			break
		}
		err = w.Write(row)
	}
	w.Flush()
	if err == nil {
		err = w.Error()
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("while writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("while closing %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("while replacing %s: %w", path, err)
	}
	return nil
}
