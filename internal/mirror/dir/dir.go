// Package dir mirrors the book tables as workbook files in a local folder,
// one file per table, same names as the backup archive entries.
package dir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"asdgest/internal/core"
	"asdgest/internal/export"
	"asdgest/internal/mirror"
)

type target struct {
	file  string
	sheet string
}

var targets = map[string]target{
	mirror.NameRicevute:  {export.FileRicevute, export.SheetRicevute},
	mirror.NamePrimaNota: {export.FilePrimaNota, export.SheetPrimaNota},
	mirror.NameSoci:      {export.FileSoci, export.SheetSoci},
}

// Store writes one workbook per table under a directory.
type Store struct {
	dir string
}

// New creates the directory if needed and returns the store.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("mirror directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create mirror directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save implements mirror.Mirror. The file is written to a temporary name and
// renamed, so a reader never sees a partial workbook.
func (s *Store) Save(_ context.Context, t core.Table, name string) error {
	tg, ok := targets[name]
	if !ok {
		return fmt.Errorf("unknown mirror table %q", name)
	}
	data, err := export.ExcelBytes(t, tg.sheet)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, tg.file)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Load implements mirror.Mirror. Missing files are not errors; the caller
// starts those tables empty.
func (s *Store) Load(_ context.Context) (mirror.State, error) {
	var state mirror.State
	for name, tg := range targets {
		data, err := os.ReadFile(filepath.Join(s.dir, tg.file))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return mirror.State{}, fmt.Errorf("read %s: %w", tg.file, err)
		}
		t, err := export.ParseExcel(data, tg.sheet)
		if err != nil {
			return mirror.State{}, fmt.Errorf("parse %s: %w", tg.file, err)
		}
		switch name {
		case mirror.NameRicevute:
			state.Ricevute = &t
		case mirror.NamePrimaNota:
			state.PrimaNota = &t
		case mirror.NameSoci:
			state.Soci = &t
		}
	}
	return state, nil
}
