package search

import (
	"sort"
	"time"
)

// sortResults orders the merged result set deterministically: the requested
// primary key with its direction, then most-recently-updated, then ascending
// id, then kind name. Equal inputs always produce the same ordering, which
// stable pagination depends on.
func sortResults(results []Result, sortBy SortBy, order SortOrder) {
	sort.Slice(results, func(i, j int) bool {
		a, b := &results[i], &results[j]

		if sortBy == SortByDeadline {
			// Records without a deadline sort after all records with one,
			// regardless of direction.
			switch {
			case a.Deadline == nil && b.Deadline != nil:
				return false
			case a.Deadline != nil && b.Deadline == nil:
				return true
			}
		}

		if c := comparePrimary(a, b, sortBy); c != 0 {
			if order == SortAsc {
				return c < 0
			}
			return c > 0
		}

		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		return a.EntityKind < b.EntityKind
	})
}

func comparePrimary(a, b *Result, sortBy SortBy) int {
	switch sortBy {
	case SortByCreated:
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case SortByUpdated:
		return compareTimes(a.UpdatedAt, b.UpdatedAt)
	case SortByPriority:
		return compareInts(priorityRank(a.Priority), priorityRank(b.Priority))
	case SortByDeadline:
		if a.Deadline == nil || b.Deadline == nil {
			return 0
		}
		return compareTimes(*a.Deadline, *b.Deadline)
	default:
		switch {
		case a.Score < b.Score:
			return -1
		case a.Score > b.Score:
			return 1
		}
		return 0
	}
}

func priorityRank(priority string) int {
	switch priority {
	case "urgent":
		return 4
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
