package search

import (
	"fmt"
	"time"

	"github.com/nobodylogger/worklog-search/db/store"
)

const (
	maxFilterCategories = 20
	maxFilterTags       = 50
	maxFilterProjects   = 10
)

// Filter is the compiled predicate form of a raw filter request. Populated
// fields combine with AND semantics; an empty filter matches everything.
type Filter struct {
	Categories map[int64]bool
	Tags       map[int64]bool
	Projects   map[int64]bool
	Start      *time.Time
	End        *time.Time
}

func compileFilter(params *FilterParams) (*Filter, error) {
	filter := &Filter{}
	if params == nil {
		return filter, nil
	}

	if len(params.Categories) > maxFilterCategories {
		return nil, newValidationError("categories", fmt.Sprintf("at most %d categories may be selected", maxFilterCategories))
	}
	if len(params.Tags) > maxFilterTags {
		return nil, newValidationError("tags", fmt.Sprintf("at most %d tags may be selected", maxFilterTags))
	}
	if len(params.Projects) > maxFilterProjects {
		return nil, newValidationError("projects", fmt.Sprintf("at most %d projects may be selected", maxFilterProjects))
	}

	filter.Categories = idSet(params.Categories)
	filter.Tags = idSet(params.Tags)
	filter.Projects = idSet(params.Projects)

	if params.DateRange != nil {
		start, err := parseFilterDate(params.DateRange.Start, "date_range.start")
		if err != nil {
			return nil, err
		}
		end, err := parseFilterDate(params.DateRange.End, "date_range.end")
		if err != nil {
			return nil, err
		}
		if start != nil && end != nil && start.After(*end) {
			return nil, newValidationError("date_range", "start date must not be after end date")
		}
		filter.Start = start
		filter.End = end
	}

	return filter, nil
}

func (f *Filter) Empty() bool {
	return len(f.Categories) == 0 && len(f.Tags) == 0 && len(f.Projects) == 0 &&
		f.Start == nil && f.End == nil
}

// A populated field a record kind has no counterpart for fails the match:
// every predicate of the conjunction must hold.

func (f *Filter) matchesTask(task *store.Task) bool {
	if len(f.Categories) > 0 && !f.Categories[task.CategoryID] {
		return false
	}
	if len(f.Tags) > 0 && !anyIDIn(task.TagIDs, f.Tags) {
		return false
	}
	if len(f.Projects) > 0 && !f.Projects[task.ProjectID] {
		return false
	}
	return f.matchesDate(task.CreatedAt)
}

func (f *Filter) matchesProject(project *store.Project) bool {
	if len(f.Categories) > 0 || len(f.Tags) > 0 {
		return false
	}
	if len(f.Projects) > 0 && !f.Projects[project.ID] {
		return false
	}
	return f.matchesDate(project.CreatedAt)
}

func (f *Filter) matchesCategory(category *store.Category) bool {
	if len(f.Tags) > 0 || len(f.Projects) > 0 {
		return false
	}
	if len(f.Categories) > 0 && !f.Categories[category.ID] {
		return false
	}
	return f.matchesDate(category.CreatedAt)
}

func (f *Filter) matchesTag(tag *store.Tag) bool {
	if len(f.Categories) > 0 || len(f.Projects) > 0 {
		return false
	}
	if len(f.Tags) > 0 && !f.Tags[tag.ID] {
		return false
	}
	return f.matchesDate(tag.CreatedAt)
}

func (f *Filter) matchesDate(createdAt time.Time) bool {
	if f.Start != nil && createdAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && createdAt.After(endOfDay(*f.End)) {
		return false
	}
	return true
}

// parseFilterDate accepts a calendar date or a full RFC3339 timestamp.
func parseFilterDate(raw, field string) (*time.Time, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	return nil, newValidationError(field, fmt.Sprintf("could not parse date %q", raw))
}

// endOfDay widens a date-only upper bound to include the whole day.
func endOfDay(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return t
	}
	return t.Add(24*time.Hour - time.Nanosecond)
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func anyIDIn(ids []int64, set map[int64]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}
