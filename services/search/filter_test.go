package search

import (
	"testing"
	"time"

	"github.com/nobodylogger/worklog-search/db/store"
	"github.com/stretchr/testify/require"
)

func int64Range(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids
}

func TestCompileFilterCardinalityCaps(t *testing.T) {
	assert := require.New(t)

	testCases := []struct {
		name    string
		params  FilterParams
		wantErr string
	}{
		{name: "CategoriesAtCap", params: FilterParams{Categories: int64Range(20)}},
		{name: "CategoriesOverCap", params: FilterParams{Categories: int64Range(21)}, wantErr: "categories"},
		{name: "TagsAtCap", params: FilterParams{Tags: int64Range(50)}},
		{name: "TagsOverCap", params: FilterParams{Tags: int64Range(51)}, wantErr: "tags"},
		{name: "ProjectsAtCap", params: FilterParams{Projects: int64Range(10)}},
		{name: "ProjectsOverCap", params: FilterParams{Projects: int64Range(11)}, wantErr: "projects"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := compileFilter(&testCase.params)
			if len(testCase.wantErr) > 0 {
				assert.ErrorIs(err, ErrValidation)
				assert.Contains(err.Error(), testCase.wantErr)
				return
			}
			assert.NoError(err)
		})
	}
}

func TestCompileFilterDateRange(t *testing.T) {
	assert := require.New(t)

	_, err := compileFilter(&FilterParams{DateRange: &DateRangeParams{Start: "2026-02-01", End: "2026-01-01"}})
	assert.ErrorIs(err, ErrValidation)

	filter, err := compileFilter(&FilterParams{DateRange: &DateRangeParams{Start: "2026-01-01", End: "2026-01-01"}})
	assert.NoError(err)
	assert.False(filter.Empty())

	_, err = compileFilter(&FilterParams{DateRange: &DateRangeParams{Start: "not-a-date"}})
	assert.ErrorIs(err, ErrValidation)

	filter, err = compileFilter(&FilterParams{DateRange: &DateRangeParams{Start: "2026-01-01T10:00:00Z"}})
	assert.NoError(err)
	assert.NotNil(filter.Start)
	assert.Nil(filter.End)
}

func TestCompileFilterEmptyMatchesEverything(t *testing.T) {
	assert := require.New(t)

	filter, err := compileFilter(nil)
	assert.NoError(err)
	assert.True(filter.Empty())

	filter, err = compileFilter(&FilterParams{})
	assert.NoError(err)
	assert.True(filter.Empty())
	assert.True(filter.matchesTask(&store.Task{CreatedAt: time.Now()}))
}

func TestFilterConjunctionSemantics(t *testing.T) {
	assert := require.New(t)

	filter, err := compileFilter(&FilterParams{
		Categories: []int64{7},
		Projects:   []int64{3},
	})
	assert.NoError(err)

	matching := &store.Task{ProjectID: 3, CategoryID: 7, CreatedAt: time.Now()}
	assert.True(filter.matchesTask(matching))

	wrongCategory := &store.Task{ProjectID: 3, CategoryID: 8, CreatedAt: time.Now()}
	assert.False(filter.matchesTask(wrongCategory))

	wrongProject := &store.Task{ProjectID: 4, CategoryID: 7, CreatedAt: time.Now()}
	assert.False(filter.matchesTask(wrongProject))

	// A category filter has no counterpart on projects, so projects are out.
	assert.False(filter.matchesProject(&store.Project{ID: 3, CreatedAt: time.Now()}))
}

func TestFilterTagMatchingIsAnyOf(t *testing.T) {
	assert := require.New(t)

	filter, err := compileFilter(&FilterParams{Tags: []int64{1, 2}})
	assert.NoError(err)

	assert.True(filter.matchesTask(&store.Task{TagIDs: []int64{2, 9}, CreatedAt: time.Now()}))
	assert.False(filter.matchesTask(&store.Task{TagIDs: []int64{9}, CreatedAt: time.Now()}))
	assert.False(filter.matchesTask(&store.Task{CreatedAt: time.Now()}))

	assert.True(filter.matchesTag(&store.Tag{ID: 1, CreatedAt: time.Now()}))
	assert.False(filter.matchesTag(&store.Tag{ID: 3, CreatedAt: time.Now()}))
}

func TestFilterDateBounds(t *testing.T) {
	assert := require.New(t)

	filter, err := compileFilter(&FilterParams{DateRange: &DateRangeParams{Start: "2026-01-10", End: "2026-01-20"}})
	assert.NoError(err)

	inside := &store.Task{CreatedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	assert.True(filter.matchesTask(inside))

	// The end bound is a calendar date and covers the whole day.
	lastDay := &store.Task{CreatedAt: time.Date(2026, 1, 20, 23, 0, 0, 0, time.UTC)}
	assert.True(filter.matchesTask(lastDay))

	before := &store.Task{CreatedAt: time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)}
	assert.False(filter.matchesTask(before))

	after := &store.Task{CreatedAt: time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)}
	assert.False(filter.matchesTask(after))
}
