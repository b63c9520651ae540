package store

// DB is the record-store contract the search subsystem consumes. Record
// writes belong to the externally-owned CRUD services; the Put methods exist
// so those services (and tests) can populate the store.
//
// FindVisible* return only records owned by userID whose soft-delete flag is
// unset. Callers may rely on that but should not depend on any ordering.
type DB interface {
	FindVisibleTasks(userID int64) ([]Task, error)
	FindVisibleProjects(userID int64) ([]Project, error)
	FindVisibleCategories(userID int64) ([]Category, error)
	FindVisibleTags(userID int64) ([]Tag, error)

	PutTask(task *Task) error
	PutProject(project *Project) error
	PutCategory(category *Category) error
	PutTag(tag *Tag) error

	Close() error
}
