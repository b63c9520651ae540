package history

import "time"

// Entry is one recorded search. Entries are append-only; they leave the store
// through retention pruning only.
type Entry struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Query       string    `json:"query"`
	Scope       string    `json:"scope"`
	ResultCount int       `json:"result_count"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// DB is the search-history log. All reads and deletes are scoped to one user;
// there is no cross-user path.
type DB interface {
	Append(entry Entry) error
	List(userID int64, limit int) ([]Entry, error)
	Prune(userID int64, cutoff time.Time) (int, error)
	Close() error
}
