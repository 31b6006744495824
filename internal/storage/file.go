package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSheet is the bucket used when a .db file is opened without naming
// a sheet.
const DefaultSheet = "sheet1"

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Load reads cells from filename, choosing the format by extension: .csv for
// a CSV grid, .db for a bbolt file holding DefaultSheet. A missing file is
// reported with an error wrapping os.ErrNotExist; a .db file without
// DefaultSheet is an empty sheet.
func Load(filename string) (map[string]string, error) {
	switch ext(filename) {
	case ".csv":
		return LoadCSV(filename)
	case ".db":
		// bbolt creates missing files on open
		if _, err := os.Stat(filename); err != nil {
			return nil, err
		}
		store, err := OpenBolt(filename)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		cells, err := store.Load(DefaultSheet)
		if errors.Is(err, ErrSheetNotFound) {
			return map[string]string{}, nil
		}
		return cells, err
	}
	return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
}

// Save writes cells to filename in the format chosen by its extension.
func Save(cells map[string]string, filename string) error {
	switch ext(filename) {
	case ".csv":
		return SaveCSV(cells, filename)
	case ".db":
		store, err := OpenBolt(filename)
		if err != nil {
			return err
		}
		if err := store.Save(DefaultSheet, cells); err != nil {
			store.Close()
			return err
		}
		return store.Close()
	}
	return fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
