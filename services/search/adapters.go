package search

import (
	"context"
	"fmt"

	"github.com/nobodylogger/worklog-search/db/store"
)

// adapter tests and scores one record kind's candidates against a normalized
// query. Adapters never see each other's records and never yield a record the
// requesting user does not own.
type adapter interface {
	kind() Kind
	search(ctx context.Context, userID int64, query Query) ([]Result, error)
}

// visible re-checks the ownership and soft-delete invariants before any text
// or filter matching runs, even though the store already claims to enforce
// them.
func visible(ownerID, userID int64, isDeleted bool) bool {
	return ownerID == userID && !isDeleted
}

// match combines keyword scoring with snippet and highlight extraction. When
// no keywords were supplied every candidate gets the baseline tier.
func match(keywords, title, body string) (Result, bool) {
	if len(keywords) == 0 {
		return Result{Score: scoreBaseline}, true
	}

	score, ok := scoreMatch(keywords, title, body)
	if !ok {
		return Result{}, false
	}

	return Result{
		Score:      score,
		Snippet:    snippet(body, keywords),
		Highlights: highlights(title+" "+body, keywords),
	}, true
}

type taskAdapter struct {
	store store.DB
}

func (a *taskAdapter) kind() Kind { return KindTask }

func (a *taskAdapter) search(ctx context.Context, userID int64, query Query) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tasks, err := a.store.FindVisibleTasks(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	var results []Result
	for i := range tasks {
		task := &tasks[i]
		if !visible(task.UserID, userID, task.IsDeleted) {
			continue
		}
		if query.Filter != nil && !query.Filter.matchesTask(task) {
			continue
		}
		result, ok := match(query.Keywords, task.Name, task.Description)
		if !ok {
			continue
		}

		result.EntityID = task.ID
		result.EntityKind = KindTask
		result.OwnerUserID = task.UserID
		result.Title = task.Name
		result.Status = task.Status
		result.Priority = task.Priority
		result.ProjectID = task.ProjectID
		result.Deadline = task.Deadline
		result.CreatedAt = task.CreatedAt
		result.UpdatedAt = task.UpdatedAt
		results = append(results, result)
	}

	return results, nil
}

type projectAdapter struct {
	store store.DB
}

func (a *projectAdapter) kind() Kind { return KindProject }

func (a *projectAdapter) search(ctx context.Context, userID int64, query Query) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	projects, err := a.store.FindVisibleProjects(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	var results []Result
	for i := range projects {
		project := &projects[i]
		if !visible(project.UserID, userID, project.IsDeleted) {
			continue
		}
		if query.Filter != nil && !query.Filter.matchesProject(project) {
			continue
		}
		result, ok := match(query.Keywords, project.Name, project.Description)
		if !ok {
			continue
		}

		result.EntityID = project.ID
		result.EntityKind = KindProject
		result.OwnerUserID = project.UserID
		result.Title = project.Name
		result.Status = project.Status
		result.CreatedAt = project.CreatedAt
		result.UpdatedAt = project.UpdatedAt
		results = append(results, result)
	}

	return results, nil
}

type categoryAdapter struct {
	store store.DB
}

func (a *categoryAdapter) kind() Kind { return KindCategory }

func (a *categoryAdapter) search(ctx context.Context, userID int64, query Query) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	categories, err := a.store.FindVisibleCategories(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	var results []Result
	for i := range categories {
		category := &categories[i]
		if !visible(category.UserID, userID, category.IsDeleted) {
			continue
		}
		if query.Filter != nil && !query.Filter.matchesCategory(category) {
			continue
		}
		result, ok := match(query.Keywords, category.Name, category.Description)
		if !ok {
			continue
		}

		result.EntityID = category.ID
		result.EntityKind = KindCategory
		result.OwnerUserID = category.UserID
		result.Title = category.Name
		result.CreatedAt = category.CreatedAt
		result.UpdatedAt = category.UpdatedAt
		results = append(results, result)
	}

	return results, nil
}

type tagAdapter struct {
	store store.DB
}

func (a *tagAdapter) kind() Kind { return KindTag }

func (a *tagAdapter) search(ctx context.Context, userID int64, query Query) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tags, err := a.store.FindVisibleTags(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	var results []Result
	for i := range tags {
		tag := &tags[i]
		if !visible(tag.UserID, userID, tag.IsDeleted) {
			continue
		}
		if query.Filter != nil && !query.Filter.matchesTag(tag) {
			continue
		}
		result, ok := match(query.Keywords, tag.Name, tag.Description)
		if !ok {
			continue
		}

		result.EntityID = tag.ID
		result.EntityKind = KindTag
		result.OwnerUserID = tag.UserID
		result.Title = tag.Name
		result.CreatedAt = tag.CreatedAt
		result.UpdatedAt = tag.UpdatedAt
		results = append(results, result)
	}

	return results, nil
}
