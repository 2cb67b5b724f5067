// Package tasks implements the personal task tracker: actor-scoped task
// mutations and the dashboard filter.
package tasks

import (
	"context"
	"strings"

	"taskboard/internal/guard"
	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// Service runs every task operation in its own transaction on behalf of an
// explicitly passed actor.
type Service struct {
	store *sqlite.Store
}

func NewService(store *sqlite.Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the fields of a new task. A nil or zero AssignedToID
// leaves the task unassigned; an empty Status means pending.
type CreateInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	AssignedToID *int64
}

// Patch lists the fields to change; nil fields stay untouched. Pointers to
// empty values clear: Description "" removes the description and
// AssignedToID 0 removes the assignee.
type Patch struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	AssignedToID *int64
}

// Create stores a task owned by actorID.
func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, models.Invalid("title", "must not be empty")
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return models.Task{}, models.Invalid("status", "must be pending, in-progress or done")
	}

	task := models.Task{
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Status:       status,
		OwnerID:      actorID,
		AssignedToID: normalizeAssignee(in.AssignedToID),
	}

	var created models.Task
	err := s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		if err := tx.RequireExists(ctx, models.KindMember, actorID); err != nil {
			return err
		}
		if task.AssignedToID != nil {
			if err := tx.RequireExists(ctx, models.KindMember, *task.AssignedToID); err != nil {
				return err
			}
		}
		var err error
		created, err = tx.CreateTask(ctx, task)
		return err
	})
	return created, err
}

// Get returns a task by id without any permission check.
func (s *Service) Get(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		task, err = tx.GetTask(ctx, id)
		return err
	})
	return task, err
}

// GetForEdit returns the task only when actorID may edit it.
func (s *Service) GetForEdit(ctx context.Context, actorID, id int64) (models.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if err := guard.AuthorizeTask(actorID, task, models.ActionEdit); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update applies patch when actorID owns or is assigned the task.
func (s *Service) Update(ctx context.Context, actorID, id int64, patch Patch) (models.Task, error) {
	var updated models.Task
	err := s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if err := guard.AuthorizeTask(actorID, task, models.ActionEdit); err != nil {
			return err
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return models.Invalid("title", "must not be empty")
			}
			task.Title = title
		}
		if patch.Description != nil {
			task.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return models.Invalid("status", "must be pending, in-progress or done")
			}
			task.Status = *patch.Status
		}
		if patch.AssignedToID != nil {
			task.AssignedToID = normalizeAssignee(patch.AssignedToID)
			if task.AssignedToID != nil {
				if err := tx.RequireExists(ctx, models.KindMember, *task.AssignedToID); err != nil {
					return err
				}
			}
		}

		updated, err = tx.UpdateTask(ctx, task)
		return err
	})
	return updated, err
}

// Delete removes the task when actorID is its owner.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	return s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		task, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if err := guard.AuthorizeTask(actorID, task, models.ActionDelete); err != nil {
			return err
		}
		return tx.DeleteTask(ctx, id)
	})
}

// Filter returns actorID's tasks selected by key, newest first, together
// with the filter that was actually applied.
func (s *Service) Filter(ctx context.Context, actorID int64, key string) ([]models.Task, Filter, error) {
	f := ParseFilter(key)
	var tasks []models.Task
	err := s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		tasks, err = tx.ListTasks(ctx, f.query(actorID))
		return err
	})
	return tasks, f, err
}

// Members lists every member that can be picked as an assignee.
func (s *Service) Members(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		members, err = tx.ListMembers(ctx)
		return err
	})
	return members, err
}

func normalizeAssignee(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

// Member returns a single member by id.
func (s *Service) Member(ctx context.Context, id int64) (models.Member, error) {
	var member models.Member
	err := s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		member, err = tx.GetMember(ctx, id)
		return err
	})
	return member, err
}
