package sessionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	bolt "go.etcd.io/bbolt"
)

var sessionBucket = []byte("session")

// BoltStore keeps the session in one bucket of a bolt file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the bolt file at path. It gives up after
// a second if another process holds the file lock.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(_ context.Context) (string, string, error) {
	var token, email string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		// values are only valid inside the transaction, string() copies them
		token = string(b.Get([]byte(common.SessionTokenKey)))
		email = string(b.Get([]byte(common.SessionEmailKey)))
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("bolt load: %w", err)
	}
	return token, email, nil
}

func (s *BoltStore) Save(_ context.Context, token, email string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if err := b.Put([]byte(common.SessionTokenKey), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(common.SessionEmailKey), []byte(email))
	})
	if err != nil {
		return fmt.Errorf("bolt save: %w", err)
	}
	return nil
}

func (s *BoltStore) Clear(_ context.Context) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if err := b.Delete([]byte(common.SessionTokenKey)); err != nil {
			return err
		}
		return b.Delete([]byte(common.SessionEmailKey))
	})
	if err != nil {
		return fmt.Errorf("bolt clear: %w", err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
