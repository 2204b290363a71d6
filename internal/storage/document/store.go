// Package document provides a BoltDB-backed Store.
//
// Each collection is a bucket of JSON documents keyed by ID. Cascading
// deletes and the one-reminder-per-unit rule are applied inside a single
// bolt write transaction, so they are atomic in the same way the SQLite
// foreign keys and unique index are.
package document

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
)

var (
	bucketProperties      = []byte("properties")
	bucketUnits           = []byte("units")
	bucketTenants         = []byte("tenants")
	bucketTransactions    = []byte("transactions")
	bucketReminders       = []byte("reminders")
	bucketRemindersByUnit = []byte("reminders_by_unit")
	bucketActivityLogs    = []byte("activity_logs")
)

var allBuckets = [][]byte{
	bucketProperties, bucketUnits, bucketTenants, bucketTransactions,
	bucketReminders, bucketRemindersByUnit, bucketActivityLogs,
}

// Store is the document Store backed by a single bolt file.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bolt database at path and ensures every bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
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

func (s *Store) Properties() storage.PropertyRepository { return &propertyRepo{db: s.db} }
func (s *Store) Units() storage.UnitRepository { return &unitRepo{db: s.db} }
func (s *Store) Tenants() storage.TenantRepository { return &tenantRepo{db: s.db} }
func (s *Store) Transactions() storage.TransactionRepository { return &transactionRepo{db: s.db} }
func (s *Store) Reminders() storage.ReminderRepository { return &reminderRepo{db: s.db} }
func (s *Store) ActivityLogs() storage.ActivityLogRepository { return &activityLogRepo{db: s.db} }

// Ping checks that the database file is still open.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketProperties) == nil {
			return fmt.Errorf("bucket %s missing", bucketProperties)
		}
		return nil
	})
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)

func now() time.Time {
	return time.Now().UTC()
}

func put(b *bolt.Bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(id), data)
}

// get decodes the document at id into v and reports whether it existed.
func get(b *bolt.Bucket, id string, v any) (bool, error) {
	data := b.Get([]byte(id))
	if data == nil {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func exists(tx *bolt.Tx, bucket []byte, id string) bool {
	return tx.Bucket(bucket).Get([]byte(id)) != nil
}

// all decodes every document in a bucket.
func all[T any](b *bolt.Bucket) ([]T, error) {
	items := []T{}
	err := b.ForEach(func(k, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return fmt.Errorf("decoding %s: %w", k, err)
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

// list loads a bucket and applies q in memory.
func list[T any](db *bolt.DB, bucket []byte, q storage.Query, fields func(*T) storage.Fields) ([]T, error) {
	var items []T
	err := db.View(func(tx *bolt.Tx) error {
		var err error
		items, err = all[T](tx.Bucket(bucket))
		return err
	})
	if err != nil {
		return nil, err
	}
	return storage.Apply(q, items, fields)
}

// getByID returns nil when the document does not exist.
func getByID[T any](db *bolt.DB, bucket []byte, id string) (*T, error) {
	var (
		item  T
		found bool
	)
	err := db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx.Bucket(bucket), id, &item)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &item, nil
}

// deleteWhere removes every document in b for which match returns true.
// Keys are collected first since bolt forbids mutation during ForEach.
func deleteWhere[T any](b *bolt.Bucket, match func(*T) bool) error {
	var doomed [][]byte
	err := b.ForEach(func(k, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return fmt.Errorf("decoding %s: %w", k, err)
		}
		if match(&item) {
			doomed = append(doomed, append([]byte(nil), k...))
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range doomed {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
