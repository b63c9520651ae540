package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nobodylogger/worklog-search/logger"
	bolt "go.etcd.io/bbolt"
)

type BoltHistory struct {
	store  *bolt.DB
	logger logger.Logger
}

const bucketHistory = "search_history"

func New(logger logger.Logger, path string) (*BoltHistory, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("failed to create history store directory", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to create history store directory: %w", err)
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		logger.Error("failed to open history store", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	boltHistory := &BoltHistory{
		store:  store,
		logger: logger,
	}

	if err := boltHistory.initBucket(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return boltHistory, nil
}

func (b *BoltHistory) initBucket() error {
	return b.store.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketHistory)); err != nil {
			b.logger.Error("failed to create bucket", "bucket", bucketHistory, "err", err.Error())
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
}

// Append stores the entry under the owning user's sub-bucket. Keys are
// zero-padded execution timestamps followed by the entry id, so a cursor
// walks entries in chronological order.
func (b *BoltHistory) Append(entry Entry) error {
	if entry.UserID <= 0 {
		return fmt.Errorf("history entry must have a user id")
	}

	value, err := json.Marshal(entry)
	if err != nil {
		b.logger.Error("failed to marshal history entry", "err", err.Error())
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	return b.store.Update(func(tx *bolt.Tx) error {
		userBucket, err := tx.Bucket([]byte(bucketHistory)).CreateBucketIfNotExists(itob(entry.UserID))
		if err != nil {
			b.logger.Error("failed to create user history bucket", "user_id", entry.UserID, "err", err.Error())
			return fmt.Errorf("failed to create user history bucket: %w", err)
		}

		if err := userBucket.Put(entryKey(entry), value); err != nil {
			b.logger.Error("failed to append history entry", "user_id", entry.UserID, "err", err.Error())
			return fmt.Errorf("failed to append history entry: %w", err)
		}

		return nil
	})
}

func (b *BoltHistory) List(userID int64, limit int) ([]Entry, error) {
	var entries []Entry
	err := b.store.View(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketHistory)).Bucket(itob(userID))
		if userBucket == nil {
			return nil
		}

		cursor := userBucket.Cursor()
		for key, value := cursor.Last(); key != nil && len(entries) < limit; key, value = cursor.Prev() {
			var entry Entry
			if err := json.Unmarshal(value, &entry); err != nil {
				b.logger.Error("failed to unmarshal history entry", "err", err.Error())
				return fmt.Errorf("failed to unmarshal history entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (b *BoltHistory) Prune(userID int64, cutoff time.Time) (int, error) {
	deleted := 0
	err := b.store.Update(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketHistory)).Bucket(itob(userID))
		if userBucket == nil {
			return nil
		}

		cursor := userBucket.Cursor()
		for key, _ := cursor.First(); key != nil; key, _ = cursor.Next() {
			executedAt, err := keyTime(key)
			if err != nil {
				b.logger.Warn("skipping history entry with malformed key", "key", string(key))
				continue
			}
			if !executedAt.Before(cutoff) {
				break
			}
			if err := cursor.Delete(); err != nil {
				b.logger.Error("failed to delete history entry", "user_id", userID, "err", err.Error())
				return fmt.Errorf("failed to delete history entry: %w", err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func (b *BoltHistory) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

func entryKey(entry Entry) []byte {
	return []byte(fmt.Sprintf("%020d-%s", entry.ExecutedAt.UnixNano(), entry.ID))
}

func keyTime(key []byte) (time.Time, error) {
	if len(key) < 20 {
		return time.Time{}, fmt.Errorf("history key too short: %q", key)
	}
	nanos, err := strconv.ParseInt(string(key[:20]), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("history key has no timestamp: %w", err)
	}
	return time.Unix(0, nanos), nil
}

func itob(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}
