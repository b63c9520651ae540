package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nobodylogger/worklog-search/logger"
)

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func newTestStore(t *testing.T, assert *require.Assertions) *BoltStore {
	t.Helper()

	boltStore, err := New(newTestLogger(), filepath.Join(t.TempDir(), "records.db"))
	assert.NoError(err, "could not create record store")
	t.Cleanup(func() {
		assert.NoError(boltStore.Close(), "could not close record store")
	})

	return boltStore
}

func TestFindVisibleTasksScopesToOwner(t *testing.T) {
	assert := require.New(t)
	boltStore := newTestStore(t, assert)

	now := time.Now().UTC()
	assert.NoError(boltStore.PutTask(&Task{ID: 1, UserID: 1, Name: "mine", Version: 1, CreatedAt: now, UpdatedAt: now}))
	assert.NoError(boltStore.PutTask(&Task{ID: 2, UserID: 2, Name: "theirs", Version: 1, CreatedAt: now, UpdatedAt: now}))
	assert.NoError(boltStore.PutTask(&Task{ID: 3, UserID: 1, Name: "gone", IsDeleted: true, Version: 1, CreatedAt: now, UpdatedAt: now}))

	tasks, err := boltStore.FindVisibleTasks(1)
	assert.NoError(err)
	assert.Len(tasks, 1)
	assert.Equal("mine", tasks[0].Name)
}

func TestPutOverwritesRecord(t *testing.T) {
	assert := require.New(t)
	boltStore := newTestStore(t, assert)

	now := time.Now().UTC()
	assert.NoError(boltStore.PutProject(&Project{ID: 1, UserID: 1, Name: "before", Version: 1, CreatedAt: now, UpdatedAt: now}))
	assert.NoError(boltStore.PutProject(&Project{ID: 1, UserID: 1, Name: "after", Version: 2, CreatedAt: now, UpdatedAt: now}))

	projects, err := boltStore.FindVisibleProjects(1)
	assert.NoError(err)
	assert.Len(projects, 1)
	assert.Equal("after", projects[0].Name)
	assert.Equal(int64(2), projects[0].Version)
}

func TestPutRejectsNonPositiveID(t *testing.T) {
	assert := require.New(t)
	boltStore := newTestStore(t, assert)

	err := boltStore.PutTag(&Tag{ID: 0, UserID: 1, Name: "bad"})
	assert.ErrorIs(err, ErrInvalidRecord)
}

func TestFindVisibleEmptyStore(t *testing.T) {
	assert := require.New(t)
	boltStore := newTestStore(t, assert)

	categories, err := boltStore.FindVisibleCategories(1)
	assert.NoError(err)
	assert.Empty(categories)
}
