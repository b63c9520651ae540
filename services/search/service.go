package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nobodylogger/worklog-search/db/history"
	"github.com/nobodylogger/worklog-search/db/store"
	"github.com/nobodylogger/worklog-search/logger"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
	maxRetentionDays    = 365
	maxSuggestions      = 5
	suggestionScan      = 50
)

// Service fans a normalized query out across the entity adapters, merges and
// ranks the results, and keeps the per-user search-history log.
type Service struct {
	logger   logger.Logger
	history  history.DB
	adapters []adapter
}

func New(logger logger.Logger, recordStore store.DB, historyDB history.DB) *Service {
	return &Service{
		logger:  logger,
		history: historyDB,
		adapters: []adapter{
			&taskAdapter{store: recordStore},
			&projectAdapter{store: recordStore},
			&categoryAdapter{store: recordStore},
			&tagAdapter{store: recordStore},
		},
	}
}

// Search executes one orchestrated query. Adapters run concurrently and the
// merge waits for all of them; a failing adapter fails the whole call rather
// than returning a silently partial result set. History recording is
// dispatched asynchronously and never affects the outcome.
func (s *Service) Search(ctx context.Context, userID int64, query Query) (*ResultSet, error) {
	start := time.Now()

	selected := s.selectAdapters(query.Scope)
	perAdapter := make([][]Result, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range selected {
		i, a := i, a
		g.Go(func() error {
			results, err := a.search(gctx, userID, query)
			if err != nil {
				return fmt.Errorf("%s search failed: %w", a.kind(), err)
			}
			perAdapter[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Result
	for _, results := range perAdapter {
		merged = append(merged, results...)
	}
	sortResults(merged, query.SortBy, query.SortOrder)

	total := len(merged)
	suggestions := s.suggestions(userID, query.Keywords)
	s.recordHistory(userID, query, total)

	return &ResultSet{
		Items:        paginate(merged, query.Offset, query.Limit),
		Total:        total,
		Query:        query.Keywords,
		SearchTimeMs: time.Since(start).Milliseconds(),
		Suggestions:  suggestions,
	}, nil
}

func (s *Service) selectAdapters(scope Scope) []adapter {
	if scope == ScopeAll {
		return s.adapters
	}

	scopeKinds := map[Scope]Kind{
		ScopeTasks:      KindTask,
		ScopeProjects:   KindProject,
		ScopeCategories: KindCategory,
		ScopeTags:       KindTag,
	}
	for _, a := range s.adapters {
		if a.kind() == scopeKinds[scope] {
			return []adapter{a}
		}
	}
	return nil
}

func paginate(results []Result, offset, limit int) []Result {
	if offset >= len(results) {
		return []Result{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

// recordHistory appends the executed query to the user's history log.
// Best-effort: the write runs outside the response path and failures are
// logged, never propagated. Filter-only searches carry no query text and are
// not recorded.
func (s *Service) recordHistory(userID int64, query Query, total int) {
	if len(query.Keywords) == 0 {
		return
	}

	entry := history.Entry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Query:       query.Keywords,
		Scope:       string(query.Scope),
		ResultCount: total,
		ExecutedAt:  time.Now().UTC(),
	}

	go func() {
		if err := s.history.Append(entry); err != nil {
			s.logger.Error("failed to record search history", "user_id", userID, "err", err.Error())
		}
	}()
}

// suggestions mines the user's own history for prior queries containing the
// current keywords. Failures degrade to no suggestions.
func (s *Service) suggestions(userID int64, keywords string) []string {
	if len(keywords) < minKeywordLength {
		return nil
	}

	entries, err := s.history.List(userID, suggestionScan)
	if err != nil {
		s.logger.Warn("failed to load history for suggestions", "user_id", userID, "err", err.Error())
		return nil
	}

	needle := strings.ToLower(keywords)
	var suggestions []string
	seen := map[string]bool{}
	for _, entry := range entries {
		candidate := strings.ToLower(entry.Query)
		if candidate == needle || !strings.Contains(candidate, needle) || seen[candidate] {
			continue
		}
		seen[candidate] = true
		suggestions = append(suggestions, entry.Query)
		if len(suggestions) >= maxSuggestions {
			break
		}
	}
	return suggestions
}

// History returns the user's most recent searches, newest first.
func (s *Service) History(userID int64, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.history.List(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// ClearHistory deletes entries executed more than retentionDays ago and
// reports how many were removed.
func (s *Service) ClearHistory(userID int64, retentionDays int) (int, error) {
	if retentionDays < 1 {
		retentionDays = 1
	}
	if retentionDays > maxRetentionDays {
		retentionDays = maxRetentionDays
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	deleted, err := s.history.Prune(userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune search history: %w", err)
	}

	s.logger.Info("pruned search history", "user_id", userID, "deleted", deleted, "retention_days", retentionDays)
	return deleted, nil
}
