package store

import "time"

// Task is one node of a project's work-breakdown tree. ParentID is zero for
// top-level tasks.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	ProjectID   int64      `json:"project_id"`
	ParentID    int64      `json:"parent_id,omitempty"`
	CategoryID  int64      `json:"category_id,omitempty"`
	TagIDs      []int64    `json:"tag_ids,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsDeleted   bool       `json:"is_deleted"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Project struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	IsDeleted   bool      `json:"is_deleted"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TaskCount   int       `json:"task_count"`
	IsDeleted   bool      `json:"is_deleted"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Tag struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UsageCount  int       `json:"usage_count"`
	IsDeleted   bool      `json:"is_deleted"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
