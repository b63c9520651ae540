package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nobodylogger/worklog-search/logger"
	bolt "go.etcd.io/bbolt"
)

type BoltStore struct {
	store  *bolt.DB
	logger logger.Logger
}

const (
	bucketTasks      = "tasks"
	bucketProjects   = "projects"
	bucketCategories = "categories"
	bucketTags       = "tags"
)

var recordBuckets = []string{bucketTasks, bucketProjects, bucketCategories, bucketTags}

func New(logger logger.Logger, path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("failed to create record store directory", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to create record store directory: %w", err)
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		logger.Error("failed to open record store", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	boltStore := &BoltStore{
		store:  store,
		logger: logger,
	}

	if err := boltStore.initBuckets(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return boltStore, nil
}

func (b *BoltStore) initBuckets() error {
	return b.store.Update(func(tx *bolt.Tx) error {
		for _, name := range recordBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				b.logger.Error("failed to create bucket", "bucket", name, "err", err.Error())
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

func (b *BoltStore) FindVisibleTasks(userID int64) ([]Task, error) {
	var tasks []Task
	err := b.findVisible(bucketTasks, func(value []byte) error {
		var task Task
		if err := json.Unmarshal(value, &task); err != nil {
			return err
		}
		if task.UserID == userID && !task.IsDeleted {
			tasks = append(tasks, task)
		}
		return nil
	})
	return tasks, err
}

func (b *BoltStore) FindVisibleProjects(userID int64) ([]Project, error) {
	var projects []Project
	err := b.findVisible(bucketProjects, func(value []byte) error {
		var project Project
		if err := json.Unmarshal(value, &project); err != nil {
			return err
		}
		if project.UserID == userID && !project.IsDeleted {
			projects = append(projects, project)
		}
		return nil
	})
	return projects, err
}

func (b *BoltStore) FindVisibleCategories(userID int64) ([]Category, error) {
	var categories []Category
	err := b.findVisible(bucketCategories, func(value []byte) error {
		var category Category
		if err := json.Unmarshal(value, &category); err != nil {
			return err
		}
		if category.UserID == userID && !category.IsDeleted {
			categories = append(categories, category)
		}
		return nil
	})
	return categories, err
}

func (b *BoltStore) FindVisibleTags(userID int64) ([]Tag, error) {
	var tags []Tag
	err := b.findVisible(bucketTags, func(value []byte) error {
		var tag Tag
		if err := json.Unmarshal(value, &tag); err != nil {
			return err
		}
		if tag.UserID == userID && !tag.IsDeleted {
			tags = append(tags, tag)
		}
		return nil
	})
	return tags, err
}

func (b *BoltStore) findVisible(bucketName string, visit func(value []byte) error) error {
	return b.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			b.logger.Error("bucket not found", "bucket", bucketName)
			return fmt.Errorf("bucket not found: %s", bucketName)
		}
		return bucket.ForEach(func(_, value []byte) error {
			return visit(value)
		})
	})
}

func (b *BoltStore) PutTask(task *Task) error {
	return b.put(bucketTasks, task.ID, task)
}

func (b *BoltStore) PutProject(project *Project) error {
	return b.put(bucketProjects, project.ID, project)
}

func (b *BoltStore) PutCategory(category *Category) error {
	return b.put(bucketCategories, category.ID, category)
}

func (b *BoltStore) PutTag(tag *Tag) error {
	return b.put(bucketTags, tag.ID, tag)
}

func (b *BoltStore) put(bucketName string, id int64, record any) error {
	if id <= 0 {
		return &InvalidRecordError{Bucket: bucketName, Reason: "record id must be positive"}
	}

	value, err := json.Marshal(record)
	if err != nil {
		b.logger.Error("failed to marshal record", "bucket", bucketName, "err", err.Error())
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	return b.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			b.logger.Error("bucket not found", "bucket", bucketName)
			return fmt.Errorf("bucket not found: %s", bucketName)
		}

		if err := bucket.Put(itob(id), value); err != nil {
			b.logger.Error("failed to put record", "bucket", bucketName, "id", id, "err", err.Error())
			return fmt.Errorf("failed to put record %d: %w", id, err)
		}

		return nil
	})
}

func (b *BoltStore) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

func itob(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}
