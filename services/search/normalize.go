package search

import (
	"fmt"
	"strings"
)

const (
	minKeywordLength = 2
	maxKeywordLength = 200
	defaultLimit     = 50
	maxLimit         = 100
)

var validScopes = map[Scope]bool{
	ScopeAll:        true,
	ScopeTasks:      true,
	ScopeProjects:   true,
	ScopeCategories: true,
	ScopeTags:       true,
}

var validSortBys = map[SortBy]bool{
	SortByRelevance: true,
	SortByCreated:   true,
	SortByUpdated:   true,
	SortByPriority:  true,
	SortByDeadline:  true,
}

// NormalizeSimple canonicalizes the keyword-search path. Keywords are
// required here; an unknown scope falls back to searching everything.
func NormalizeSimple(params SimpleParams) (Query, error) {
	keywords := strings.TrimSpace(params.Query)
	if len(keywords) == 0 {
		return Query{}, newValidationError("q", "search keywords must not be empty")
	}
	if err := checkKeywordLength(keywords, "q"); err != nil {
		return Query{}, err
	}

	scope := Scope(params.Scope)
	if !validScopes[scope] {
		scope = ScopeAll
	}

	return Query{
		Keywords:  keywords,
		Scope:     scope,
		SortBy:    SortByRelevance,
		SortOrder: SortDesc,
		Limit:     clampLimit(params.Limit),
		Offset:    clampOffset(params.Offset),
	}, nil
}

// NormalizeAdvanced canonicalizes the structured-search path and compiles the
// attached filter. A request must carry keywords or at least one filter
// field; with neither there is nothing to rank.
func NormalizeAdvanced(params AdvancedParams) (Query, error) {
	keywords := strings.TrimSpace(params.Keywords)
	if len(keywords) > 0 {
		if err := checkKeywordLength(keywords, "keywords"); err != nil {
			return Query{}, err
		}
	}

	scope := ScopeAll
	if len(params.Scope) > 0 {
		scope = Scope(params.Scope)
		if !validScopes[scope] {
			return Query{}, newValidationError("type", fmt.Sprintf("unknown entity scope %q", params.Scope))
		}
	}

	sortBy := SortByRelevance
	if len(params.SortBy) > 0 {
		sortBy = SortBy(params.SortBy)
		if !validSortBys[sortBy] {
			return Query{}, newValidationError("sort_by", fmt.Sprintf("unknown sort field %q", params.SortBy))
		}
	}

	sortOrder := SortDesc
	if len(params.SortOrder) > 0 {
		sortOrder = SortOrder(params.SortOrder)
		if sortOrder != SortAsc && sortOrder != SortDesc {
			return Query{}, newValidationError("sort_order", fmt.Sprintf("unknown sort order %q", params.SortOrder))
		}
	}

	filter, err := compileFilter(params.Filter)
	if err != nil {
		return Query{}, err
	}

	if len(keywords) == 0 && filter.Empty() {
		return Query{}, newValidationError("", "must supply keywords or filters")
	}

	query := Query{
		Keywords:  keywords,
		Scope:     scope,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Limit:     clampLimit(params.Limit),
		Offset:    clampOffset(params.Offset),
	}
	if !filter.Empty() {
		query.Filter = filter
	}

	return query, nil
}

func checkKeywordLength(keywords, field string) error {
	if len(keywords) < minKeywordLength {
		return newValidationError(field, fmt.Sprintf("search keywords need at least %d characters", minKeywordLength))
	}
	if len(keywords) > maxKeywordLength {
		return newValidationError(field, fmt.Sprintf("search keywords must not exceed %d characters", maxKeywordLength))
	}
	return nil
}

// Out-of-range pagination values are repaired, not rejected.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
