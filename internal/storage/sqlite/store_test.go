package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/guard"
	"taskboard/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustMember(t *testing.T, s *Store, username string) models.Member {
	t.Helper()
	var m models.Member
	err := s.InTx(context.Background(), func(tx *Tx) error {
		var err error
		m, err = tx.CreateMember(context.Background(), models.Member{Username: username, PasswordHash: "x"})
		return err
	})
	require.NoError(t, err)
	return m
}

func TestOpenURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "url.db")
	s, err := OpenURL("sqlite3:"+path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = OpenURL("postgres://localhost/taskboard", nil)
	assert.Error(t, err)
}

func TestCreateMemberUniqueUsername(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	mustMember(t, s, "ana")

	err := s.InTx(ctx, func(tx *Tx) error {
		_, err := tx.CreateMember(ctx, models.Member{Username: "ana", PasswordHash: "y"})
		return err
	})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	// Exact match only.
	mustMember(t, s, "Ana")

	err = s.InTx(ctx, func(tx *Tx) error {
		_, err := tx.GetMemberByUsername(ctx, "nobody")
		return err
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInTxRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.CreateWorkspace(ctx, "W"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		ws, err := tx.ListWorkspaces(ctx)
		assert.Empty(t, ws)
		return err
	}))
}

func TestListTasksQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ana := mustMember(t, s, "ana")
	bob := mustMember(t, s, "bob")

	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		for _, task := range []models.Task{
			{Title: "a1", Status: models.StatusPending, OwnerID: ana.ID},
			{Title: "b1", Status: models.StatusDone, OwnerID: bob.ID, AssignedToID: &ana.ID},
			{Title: "b2", Status: models.StatusPending, OwnerID: bob.ID},
		} {
			if _, err := tx.CreateTask(ctx, task); err != nil {
				return err
			}
		}
		return nil
	}))

	titles := func(q TaskQuery) []string {
		var out []string
		require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
			tasks, err := tx.ListTasks(ctx, q)
			for _, task := range tasks {
				out = append(out, task.Title)
			}
			return err
		}))
		return out
	}

	assert.Equal(t, []string{"b1", "a1"}, titles(TaskQuery{InvolvedID: ana.ID}))
	assert.Equal(t, []string{"a1"}, titles(TaskQuery{OwnerID: ana.ID}))
	assert.Equal(t, []string{"b1"}, titles(TaskQuery{AssigneeID: ana.ID}))
	assert.Equal(t, []string{"a1"}, titles(TaskQuery{InvolvedID: ana.ID, Status: models.StatusPending}))
	assert.Equal(t, []string{"b2", "b1"}, titles(TaskQuery{InvolvedID: bob.ID}))
}

func TestUpdateTaskClearsAssignee(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ana := mustMember(t, s, "ana")
	bob := mustMember(t, s, "bob")

	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		task, err := tx.CreateTask(ctx, models.Task{Title: "t", Status: models.StatusPending, OwnerID: ana.ID, AssignedToID: &bob.ID})
		require.NoError(t, err)
		require.NotNil(t, task.AssignedToID)

		task.AssignedToID = nil
		task.Description = ""
		updated, err := tx.UpdateTask(ctx, task)
		require.NoError(t, err)
		assert.Nil(t, updated.AssignedToID)
		return nil
	}))
}

func TestGuardedDeleteAgainstSchema(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ws models.Workspace
	var board models.Board
	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		var err error
		ws, err = tx.CreateWorkspace(ctx, "W")
		require.NoError(t, err)
		board, err = tx.CreateBoard(ctx, models.Board{WorkspaceID: ws.ID, Name: "B", Visibility: models.VisibilityPrivate})
		return err
	}))

	err := s.InTx(ctx, func(tx *Tx) error {
		return guard.GuardedDelete(ctx, tx, guard.WorkspaceLevel, ws.ID)
	})
	var dep *models.HasDependentsError
	require.True(t, errors.As(err, &dep))
	assert.Equal(t, 1, dep.Count)

	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		return guard.GuardedDelete(ctx, tx, guard.BoardLevel, board.ID)
	}))
	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		return guard.GuardedDelete(ctx, tx, guard.WorkspaceLevel, ws.ID)
	}))
}

func TestCardDeleteCascadesAssociations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ana := mustMember(t, s, "ana")

	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		ws, _ := tx.CreateWorkspace(ctx, "W")
		board, _ := tx.CreateBoard(ctx, models.Board{WorkspaceID: ws.ID, Name: "B", Visibility: models.VisibilityPublic})
		list, _ := tx.CreateList(ctx, models.List{BoardID: board.ID, Name: "L", Position: 1})
		card, err := tx.CreateCard(ctx, models.Card{ListID: list.ID, Name: "C", Position: 1})
		require.NoError(t, err)
		label, err := tx.CreateLabel(ctx, models.Label{Name: "urgent", Color: "red"})
		require.NoError(t, err)

		require.NoError(t, tx.Link(ctx, CardLabels, card.ID, label.ID))
		require.NoError(t, tx.Link(ctx, CardLabels, card.ID, label.ID))
		require.NoError(t, tx.Link(ctx, CardMembers, card.ID, ana.ID))

		labels, err := tx.LinkedLabels(ctx, CardLabels, card.ID)
		require.NoError(t, err)
		assert.Len(t, labels, 1)

		require.NoError(t, guard.GuardedDelete(ctx, tx, guard.CardLevel, card.ID))

		var n int
		require.NoError(t, tx.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_labels`).Scan(&n))
		assert.Zero(t, n)
		require.NoError(t, tx.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_members`).Scan(&n))
		assert.Zero(t, n)

		_, err = tx.GetLabel(ctx, label.ID)
		return err
	}))
}

func TestListsAndCardsOrderedByPosition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InTx(ctx, func(tx *Tx) error {
		ws, _ := tx.CreateWorkspace(ctx, "W")
		board, _ := tx.CreateBoard(ctx, models.Board{WorkspaceID: ws.ID, Name: "B", Visibility: models.VisibilityPrivate})
		for _, l := range []models.List{{Name: "third", Position: 3}, {Name: "first", Position: 1}, {Name: "second", Position: 1}} {
			l.BoardID = board.ID
			if _, err := tx.CreateList(ctx, l); err != nil {
				return err
			}
		}
		lists, err := tx.ListLists(ctx, board.ID)
		require.NoError(t, err)
		require.Len(t, lists, 3)
		assert.Equal(t, "first", lists[0].Name)
		assert.Equal(t, "second", lists[1].Name)
		assert.Equal(t, "third", lists[2].Name)

		for _, c := range []models.Card{{Name: "z", Position: 9}, {Name: "a", Position: 2}} {
			c.ListID = lists[0].ID
			if _, err := tx.CreateCard(ctx, c); err != nil {
				return err
			}
		}
		cards, err := tx.ListCards(ctx, lists[0].ID)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, "a", cards[0].Name)
		return nil
	}))
}

func TestUnlinkMissingAssociation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ana := mustMember(t, s, "ana")

	err := s.InTx(ctx, func(tx *Tx) error {
		ws, err := tx.CreateWorkspace(ctx, "W")
		require.NoError(t, err)
		return tx.Unlink(ctx, WorkspaceMembers, ws.ID, ana.ID)
	})
	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, models.KindMember, nf.Kind)
}
