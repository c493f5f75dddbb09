package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ FlashStore = (*boltFlashStore)(nil) // ensure boltFlashStore implements FlashStore.

// flashRecord is the stored value of a session key.
type flashRecord struct {
	Messages []string  `json:"messages"`
	Expires  time.Time `json:"expires"`
}

type boltFlashStore struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
	clock  Clocker
	ttl    time.Duration
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltFlashStore provides an instance of bolt-based flash store.
// Expired records are ignored on read and replaced on write.
func NewBoltFlashStore(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB, clock Clocker, ttl time.Duration) FlashStore {
	return &boltFlashStore{
		logger: logger,
		client: client,
		config: boltConfig,
		clock:  clock,
		ttl:    ttl,
	}
}

// Close shuts down the bolt database.
func (bf *boltFlashStore) Close() error {
	return bf.client.Close()
}

// load decodes the live record stored at key if any.
func (bf *boltFlashStore) load(b *bolt.Bucket, key []byte) (flashRecord, error) {
	var record flashRecord
	data := b.Get(key)
	if data == nil {
		return record, nil
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, err
	}
	if !bf.clock.Now().Before(record.Expires) {
		return flashRecord{}, nil
	}
	return record, nil
}

// Push appends messages to the session record and refreshes its expiry.
func (bf *boltFlashStore) Push(_ context.Context, sid string, messages ...string) error {
	if sid == "" {
		return ErrInvalidSession
	}
	if len(messages) == 0 {
		return nil
	}
	key := []byte(flashKey(sid))
	return bf.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bf.config.BucketName))
		record, err := bf.load(b, key)
		if err != nil {
			bf.logger.Warn("dropping unreadable flash record", zap.String("flash.key", string(key)), zap.Error(err))
		}
		record.Messages = append(record.Messages, messages...)
		record.Expires = bf.clock.Now().Add(bf.ttl)
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// Pop returns all pending messages of the session in push order and removes them.
func (bf *boltFlashStore) Pop(_ context.Context, sid string) ([]string, error) {
	if sid == "" {
		return nil, ErrInvalidSession
	}
	var messages []string
	key := []byte(flashKey(sid))
	err := bf.client.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bf.config.BucketName))
		record, err := bf.load(b, key)
		if err != nil {
			bf.logger.Warn("dropping unreadable flash record", zap.String("flash.key", string(key)), zap.Error(err))
		}
		messages = record.Messages
		return b.Delete(key)
	})
	return messages, err
}
