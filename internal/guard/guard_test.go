package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
)

type node struct {
	kind   models.Kind
	parent int64
}

// fakeTx is an in-memory tree keyed by id; ids are unique across kinds.
type fakeTx struct {
	nodes   map[int64]node
	deleted []int64
	failOn  models.Kind
}

func (f *fakeTx) Exists(_ context.Context, kind models.Kind, id int64) (bool, error) {
	n, ok := f.nodes[id]
	return ok && n.kind == kind, nil
}

func (f *fakeTx) CountChildren(_ context.Context, level Level, id int64) (int, error) {
	count := 0
	for _, n := range f.nodes {
		if n.kind == level.ChildKind && n.parent == id {
			count++
		}
	}
	return count, nil
}

func (f *fakeTx) Delete(_ context.Context, kind models.Kind, id int64) error {
	if kind == f.failOn {
		return errors.New("disk full")
	}
	delete(f.nodes, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newTree() *fakeTx {
	return &fakeTx{nodes: map[int64]node{
		1: {kind: models.KindWorkspace},
		2: {kind: models.KindBoard, parent: 1},
		3: {kind: models.KindList, parent: 2},
		4: {kind: models.KindCard, parent: 3},
		5: {kind: models.KindCard, parent: 3},
	}}
}

func TestGuardedDeleteBlocksParents(t *testing.T) {
	ctx := context.Background()
	tx := newTree()

	cases := []struct {
		level Level
		id    int64
		child models.Kind
		count int
	}{
		{WorkspaceLevel, 1, models.KindBoard, 1},
		{BoardLevel, 2, models.KindList, 1},
		{ListLevel, 3, models.KindCard, 2},
	}
	for _, tc := range cases {
		err := GuardedDelete(ctx, tx, tc.level, tc.id)
		var dep *models.HasDependentsError
		require.True(t, errors.As(err, &dep), "level %s", tc.level.Kind)
		assert.Equal(t, tc.level.Kind, dep.Kind)
		assert.Equal(t, tc.child, dep.ChildKind)
		assert.Equal(t, tc.count, dep.Count)
	}
	assert.Empty(t, tx.deleted)
}

func TestGuardedDeleteBottomUp(t *testing.T) {
	ctx := context.Background()
	tx := newTree()

	require.NoError(t, GuardedDelete(ctx, tx, CardLevel, 4))
	require.NoError(t, GuardedDelete(ctx, tx, CardLevel, 5))
	require.NoError(t, GuardedDelete(ctx, tx, ListLevel, 3))
	require.NoError(t, GuardedDelete(ctx, tx, BoardLevel, 2))
	require.NoError(t, GuardedDelete(ctx, tx, WorkspaceLevel, 1))
	assert.Equal(t, []int64{4, 5, 3, 2, 1}, tx.deleted)

	err := GuardedDelete(ctx, tx, WorkspaceLevel, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGuardedDeleteWrongKindIsNotFound(t *testing.T) {
	tx := newTree()
	err := GuardedDelete(context.Background(), tx, BoardLevel, 3)
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, models.KindBoard, nf.Kind)
	assert.Equal(t, int64(3), nf.ID)
}

func TestGuardedDeleteWrapsStoreErrors(t *testing.T) {
	tx := newTree()
	tx.failOn = models.KindCard
	err := GuardedDelete(context.Background(), tx, CardLevel, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete card")
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestTaskPermissions(t *testing.T) {
	assignee := int64(2)
	task := models.Task{ID: 10, OwnerID: 1, AssignedToID: &assignee}

	assert.True(t, CanEditTask(1, task))
	assert.True(t, CanEditTask(2, task))
	assert.False(t, CanEditTask(3, task))

	assert.True(t, CanDeleteTask(1, task))
	assert.False(t, CanDeleteTask(2, task))
	assert.False(t, CanDeleteTask(3, task))

	assert.NoError(t, AuthorizeTask(2, task, models.ActionEdit))
	err := AuthorizeTask(2, task, models.ActionDelete)
	var fe *models.ForbiddenError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, int64(2), fe.ActorID)
	assert.Equal(t, int64(10), fe.EntityID)
	assert.Equal(t, models.ActionDelete, fe.Action)

	unassigned := models.Task{ID: 11, OwnerID: 1}
	assert.False(t, CanEditTask(0, unassigned))
}
