package storage

import (
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var ErrSheetNotFound = errors.New("sheet not found")

// BoltStore keeps sheets in a bbolt file, one bucket per sheet. Keys are cell
// labels and values the raw cell text.
type BoltStore struct {
	db *bbolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored contents of sheetName with cells.
func (s *BoltStore) Save(sheetName string, cells map[string]string) error {
	name := []byte(sheetName)
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		bucket, err := tx.CreateBucket(name)
		if err != nil {
			return err
		}
		for label, text := range cells {
			if text == "" {
				continue
			}
			if err := bucket.Put([]byte(label), []byte(text)); err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
		}
		return nil
	})
}

func (s *BoltStore) Load(sheetName string) (map[string]string, error) {
	cells := map[string]string{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sheetName))
		if bucket == nil {
			return fmt.Errorf("%s: %w", sheetName, ErrSheetNotFound)
		}
		return bucket.ForEach(func(k, v []byte) error {
			cells[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cells, nil
}

// Sheets lists the stored sheet names in key order.
func (s *BoltStore) Sheets() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}
