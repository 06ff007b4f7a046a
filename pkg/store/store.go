// Package store keeps the interaction history of the session in a bbolt
// database, so that it survives restarts.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.wkbench.dev/pkg/logutil"
	"src.wkbench.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

const bucketEntry = "interactions"

// Functions run when a database is opened, keyed by description.
var initDB = map[string]func(*bolt.Tx) error{
	"initialize interaction history table": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketEntry))
		return err
	},
}

// DBStore is a storedefs.Store backed by a database file.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// Open opens or creates the database file at path. It waits at most one
// second for another process to release the file.
func Open(path string) (DBStore, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Println("opened", path)
	return &dbStore{db}, nil
}

func (s *dbStore) Close() error { return s.db.Close() }
