package search

import (
	"time"

	"github.com/nobodylogger/worklog-search/db/history"
)

// Scope names the subset of record kinds a query may touch.
type Scope string

const (
	ScopeAll        Scope = "all"
	ScopeTasks      Scope = "tasks"
	ScopeProjects   Scope = "projects"
	ScopeCategories Scope = "categories"
	ScopeTags       Scope = "tags"
)

// Kind identifies one record kind in a merged result set.
type Kind string

const (
	KindTask     Kind = "task"
	KindProject  Kind = "project"
	KindCategory Kind = "category"
	KindTag      Kind = "tag"
)

type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByCreated   SortBy = "created"
	SortByUpdated   SortBy = "updated"
	SortByPriority  SortBy = "priority"
	SortByDeadline  SortBy = "deadline"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query is a fully-validated, canonical search request. Only the normalizer
// constructs these; nothing downstream re-validates.
type Query struct {
	Keywords  string
	Scope     Scope
	SortBy    SortBy
	SortOrder SortOrder
	Limit     int
	Offset    int
	Filter    *Filter
}

// SimpleParams carries the raw inputs of the keyword-search path.
type SimpleParams struct {
	Query  string
	Scope  string
	Limit  int
	Offset int
}

// AdvancedParams carries the raw inputs of the structured-search path.
type AdvancedParams struct {
	Keywords  string
	Scope     string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
	Filter    *FilterParams
}

type FilterParams struct {
	Categories []int64
	Tags       []int64
	Projects   []int64
	DateRange  *DateRangeParams
}

type DateRangeParams struct {
	Start string
	End   string
}

// Result is the common projection every record kind maps into.
type Result struct {
	EntityID    int64      `json:"entity_id"`
	EntityKind  Kind       `json:"entity_kind"`
	OwnerUserID int64      `json:"owner_user_id"`
	Title       string     `json:"title"`
	Snippet     string     `json:"snippet,omitempty"`
	Highlights  []string   `json:"highlights,omitempty"`
	Score       float64    `json:"score"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	ProjectID   int64      `json:"project_id,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ResultSet is the unified response envelope of one orchestrated search.
// Total counts the full merged result set before pagination.
type ResultSet struct {
	Items        []Result `json:"items"`
	Total        int      `json:"total"`
	Query        string   `json:"query"`
	SearchTimeMs int64    `json:"search_time_ms"`
	Suggestions  []string `json:"suggestions"`
}

// HistoryEntry is re-exported so handlers do not reach into the db layer.
type HistoryEntry = history.Entry
