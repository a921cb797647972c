package prefstore

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketName = []byte("preferences")

type BBolt struct {
	db *bbolt.DB
}

func NewBBolt(db *bbolt.DB) *BBolt {
	return &BBolt{db: db}
}

func (s *BBolt) Get(ctx context.Context, key string) ([]byte, bool, error) {
	tx, err := s.db.Begin(false)
	if err != nil {
		return nil, false, fmt.Errorf("prefstore.BBolt.Get: %w", err)
	}
	defer tx.Rollback()

	b := tx.Bucket(bucketName)
	if b == nil {
		return nil, false, nil
	}

	d := b.Get([]byte(key))
	if d == nil {
		return nil, false, nil
	}

	return append([]byte(nil), d...), true, nil
}

func (s *BBolt) Put(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.Begin(true)
	if err != nil {
		return fmt.Errorf("prefstore.BBolt.Put: %w", err)
	}
	defer tx.Rollback()

	b, err := tx.CreateBucketIfNotExists(bucketName)
	if err != nil {
		return fmt.Errorf("prefstore.BBolt.Put: %w", err)
	}

	if err := b.Put([]byte(key), value); err != nil {
		return fmt.Errorf("prefstore.BBolt.Put: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("prefstore.BBolt.Put: %w", err)
	}

	return nil
}
