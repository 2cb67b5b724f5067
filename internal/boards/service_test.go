package boards

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

func newService(t *testing.T) (*Service, int64) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "boards.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var member models.Member
	ctx := context.Background()
	require.NoError(t, store.InTx(ctx, func(tx *sqlite.Tx) error {
		member, err = tx.CreateMember(ctx, models.Member{Username: "owner", PasswordHash: "x"})
		return err
	}))
	return NewService(store), member.ID
}

func ptr[T any](v T) *T { return &v }

func TestGuardedDeleteBottomUp(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()

	w, err := svc.CreateWorkspace(ctx, actor, "Team")
	require.NoError(t, err)
	b, err := svc.CreateBoard(ctx, w.ID, BoardInput{Name: "Roadmap"})
	require.NoError(t, err)
	l, err := svc.CreateList(ctx, b.ID, ListInput{Name: "Backlog"})
	require.NoError(t, err)
	c, err := svc.CreateCard(ctx, l.ID, CardInput{Name: "Ship it"})
	require.NoError(t, err)

	var he *models.HasDependentsError
	err = svc.DeleteWorkspace(ctx, w.ID)
	require.True(t, errors.As(err, &he))
	assert.Equal(t, models.KindBoard, he.ChildKind)
	assert.ErrorIs(t, svc.DeleteBoard(ctx, b.ID), models.ErrHasDependents)
	assert.ErrorIs(t, svc.DeleteList(ctx, l.ID), models.ErrHasDependents)

	require.NoError(t, svc.DeleteCard(ctx, c.ID))
	require.NoError(t, svc.DeleteList(ctx, l.ID))
	require.NoError(t, svc.DeleteBoard(ctx, b.ID))
	require.NoError(t, svc.DeleteWorkspace(ctx, w.ID))

	_, err = svc.GetWorkspace(ctx, w.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCard(ctx, c.ID), models.ErrNotFound)
}

func TestCreateRequiresParent(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()

	_, err := svc.CreateBoard(ctx, 42, BoardInput{Name: "orphan"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.CreateList(ctx, 42, ListInput{Name: "orphan"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.CreateCard(ctx, 42, CardInput{Name: "orphan"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.CreateWorkspace(ctx, actor+100, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = svc.CreateWorkspace(ctx, actor, "   ")
	assert.ErrorIs(t, err, models.ErrInvalid)
}

func TestCreateWorkspaceRollsBackOnLinkFailure(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()

	_, err := svc.store.DB().ExecContext(ctx, `DROP TABLE workspace_members`)
	require.NoError(t, err)

	w, err := svc.CreateWorkspace(ctx, actor, "Team")
	require.Error(t, err)
	assert.Zero(t, w)

	all, err := svc.ListWorkspaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateCardRacesListDelete(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()

	for round := 0; round < 50; round++ {
		w, err := svc.CreateWorkspace(ctx, actor, "Team")
		require.NoError(t, err)
		b, err := svc.CreateBoard(ctx, w.ID, BoardInput{Name: "Roadmap"})
		require.NoError(t, err)
		l, err := svc.CreateList(ctx, b.ID, ListInput{Name: "Backlog"})
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			card      models.Card
			createErr error
			deleteErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			card, createErr = svc.CreateCard(ctx, l.ID, CardInput{Name: "Ship it"})
		}()
		go func() {
			defer wg.Done()
			deleteErr = svc.DeleteList(ctx, l.ID)
		}()
		wg.Wait()

		require.False(t, createErr == nil && deleteErr == nil, "round %d: card %d created in a deleted list", round, card.ID)
		if deleteErr == nil {
			assert.ErrorIs(t, createErr, models.ErrNotFound, "round %d", round)
			var orphans int
			require.NoError(t, svc.store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE list_id = ?`, l.ID).Scan(&orphans))
			assert.Zero(t, orphans, "round %d", round)
		} else {
			require.NoError(t, createErr, "round %d", round)
			assert.ErrorIs(t, deleteErr, models.ErrHasDependents, "round %d", round)
			got, err := svc.GetCard(ctx, card.ID)
			require.NoError(t, err)
			assert.Equal(t, l.ID, got.ListID)
		}
	}
}

func TestDefaults(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()

	w, err := svc.CreateWorkspace(ctx, actor, "Team")
	require.NoError(t, err)
	members, err := svc.WorkspaceMembers(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, actor, members[0].ID)

	b, err := svc.CreateBoard(ctx, w.ID, BoardInput{Name: "Board"})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPrivate, b.Visibility)
	_, err = svc.CreateBoard(ctx, w.ID, BoardInput{Name: "Board", Visibility: "secret"})
	assert.ErrorIs(t, err, models.ErrInvalid)

	l, err := svc.CreateList(ctx, b.ID, ListInput{Name: "List"})
	require.NoError(t, err)
	assert.Equal(t, int64(models.DefaultPosition), l.Position)
	c, err := svc.CreateCard(ctx, l.ID, CardInput{Name: "Card", Position: -3})
	require.NoError(t, err)
	assert.Equal(t, int64(models.DefaultPosition), c.Position)
}

func TestUpdateCardMovesBetweenLists(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()
	w, _ := svc.CreateWorkspace(ctx, actor, "Team")
	b, _ := svc.CreateBoard(ctx, w.ID, BoardInput{Name: "Board"})
	todo, _ := svc.CreateList(ctx, b.ID, ListInput{Name: "Todo"})
	done, _ := svc.CreateList(ctx, b.ID, ListInput{Name: "Done", Position: 2})
	c, err := svc.CreateCard(ctx, todo.ID, CardInput{Name: "Card", Description: "d"})
	require.NoError(t, err)

	_, err = svc.UpdateCard(ctx, c.ID, CardPatch{ListID: ptr(int64(999))})
	assert.ErrorIs(t, err, models.ErrNotFound)

	moved, err := svc.UpdateCard(ctx, c.ID, CardPatch{ListID: &done.ID, Archived: ptr(true), Description: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, done.ID, moved.ListID)
	assert.True(t, moved.Archived)
	assert.Empty(t, moved.Description)
	assert.Equal(t, "Card", moved.Name)

	require.NoError(t, svc.DeleteList(ctx, todo.ID))
	assert.ErrorIs(t, svc.DeleteList(ctx, done.ID), models.ErrHasDependents)
}

func TestAssociations(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()
	w, _ := svc.CreateWorkspace(ctx, actor, "Team")
	b, _ := svc.CreateBoard(ctx, w.ID, BoardInput{Name: "Board"})
	l, _ := svc.CreateList(ctx, b.ID, ListInput{Name: "List"})
	c, _ := svc.CreateCard(ctx, l.ID, CardInput{Name: "Card"})
	urgent, err := svc.CreateLabel(ctx, "urgent", "red")
	require.NoError(t, err)

	require.NoError(t, svc.AttachBoardLabel(ctx, b.ID, urgent.ID))
	require.NoError(t, svc.AddCardLabel(ctx, c.ID, urgent.ID))
	require.NoError(t, svc.AddCardLabel(ctx, c.ID, urgent.ID))
	require.NoError(t, svc.AddCardMember(ctx, c.ID, actor))
	require.NoError(t, svc.AddBoardMember(ctx, b.ID, actor))

	labels, err := svc.CardLabels(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "urgent", labels[0].Name)

	require.NoError(t, svc.RemoveCardMember(ctx, c.ID, actor))
	assert.ErrorIs(t, svc.RemoveCardMember(ctx, c.ID, actor), models.ErrNotFound)
	assert.ErrorIs(t, svc.AddCardMember(ctx, c.ID, actor+50), models.ErrNotFound)

	// Deleting a label detaches it everywhere.
	require.NoError(t, svc.DeleteLabel(ctx, urgent.ID))
	labels, err = svc.BoardLabels(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, labels)

	members, err := svc.BoardMembers(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	workspaces, err := svc.WorkspacesOf(ctx, actor)
	require.NoError(t, err)
	require.Len(t, workspaces, 1)
	assert.Equal(t, "Team", workspaces[0].Name)
}

func TestUpdateLabelAndBoard(t *testing.T) {
	svc, actor := newService(t)
	ctx := context.Background()
	w, _ := svc.CreateWorkspace(ctx, actor, "Team")
	b, _ := svc.CreateBoard(ctx, w.ID, BoardInput{Name: "Board"})

	public := models.VisibilityPublic
	updated, err := svc.UpdateBoard(ctx, b.ID, BoardPatch{Visibility: &public, Background: ptr("#fff")})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, updated.Visibility)
	assert.Equal(t, "#fff", updated.Background)
	assert.Equal(t, "Board", updated.Name)

	_, err = svc.UpdateBoard(ctx, 999, BoardPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	l, err := svc.CreateLabel(ctx, "bug", "")
	require.NoError(t, err)
	l, err = svc.UpdateLabel(ctx, l.ID, LabelPatch{Color: ptr("orange")})
	require.NoError(t, err)
	assert.Equal(t, "orange", l.Color)
	_, err = svc.UpdateLabel(ctx, l.ID, LabelPatch{Name: ptr("")})
	assert.ErrorIs(t, err, models.ErrInvalid)

	renamed, err := svc.RenameWorkspace(ctx, w.ID, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)
}
