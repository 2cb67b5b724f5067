package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	wrapped := fmt.Errorf("delete board: %w", &HasDependentsError{Kind: KindBoard, ChildKind: KindList, Count: 2})
	assert.ErrorIs(t, wrapped, ErrHasDependents)
	assert.NotErrorIs(t, wrapped, ErrNotFound)

	var dep *HasDependentsError
	assert.True(t, errors.As(wrapped, &dep))
	assert.Equal(t, KindList, dep.ChildKind)
	assert.Equal(t, "delete all lists belonging to this board first (2 remaining)", dep.Error())

	assert.ErrorIs(t, NotFound(KindCard, 7), ErrNotFound)
	assert.ErrorIs(t, &ForbiddenError{ActorID: 1, EntityID: 2, Action: ActionDelete}, ErrForbidden)
	assert.ErrorIs(t, Invalid("title", "must not be empty"), ErrInvalid)
}

func TestTaskStatusValid(t *testing.T) {
	for _, s := range TaskStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TaskStatus("pendente").Valid())
	assert.False(t, TaskStatus("").Valid())
}

func TestTaskIsAssignedTo(t *testing.T) {
	id := int64(4)
	task := Task{OwnerID: 1, AssignedToID: &id}
	assert.True(t, task.IsAssignedTo(4))
	assert.False(t, task.IsAssignedTo(1))
	assert.False(t, Task{OwnerID: 1}.IsAssignedTo(0))
}
