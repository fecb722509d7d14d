// Package history persists small bits of user convenience state (recent
// search queries, last-visited view) between runs. List cache state is
// deliberately never persisted; the page cache is in-memory only.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const maxRecentSearches = 20

// Bucket names
var (
	bucketSearches = []byte("searches")
	bucketState    = []byte("state")
)

// Store is a bbolt-backed key/value store for UI state
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the history database under dataDir. An empty
// dataDir yields a no-op store, which keeps the TUI usable when the data
// directory cannot be created.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		return &Store{}, nil
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSearches, bucketState} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddSearch records a query as the most recent search. Duplicates are
// promoted rather than repeated, and the list is capped.
func (s *Store) AddSearch(query string) error {
	if s.db == nil || query == "" {
		return nil
	}
	recent, err := s.RecentSearches()
	if err != nil {
		return err
	}

	updated := make([]string, 0, len(recent)+1)
	updated = append(updated, query)
	for _, q := range recent {
		if q != query {
			updated = append(updated, q)
		}
	}
	if len(updated) > maxRecentSearches {
		updated = updated[:maxRecentSearches]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSearches).Put([]byte("recent"), data)
	})
}

// RecentSearches returns recorded queries, most recent first
func (s *Store) RecentSearches() ([]string, error) {
	if s.db == nil {
		return nil, nil
	}
	var queries []string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSearches).Get([]byte("recent"))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &queries)
	})
	return queries, err
}

// SetLastView records the view the user was in
func (s *Store) SetLastView(view string) error {
	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte("last_view"), []byte(view))
	})
}

// LastView returns the recorded view, or "" when none was saved
func (s *Store) LastView() (string, error) {
	if s.db == nil {
		return "", nil
	}
	var view string
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketState).Get([]byte("last_view")); data != nil {
			view = string(data)
		}
		return nil
	})
	return view, err
}
