// Package boards manages the Workspace -> Board -> List -> Card hierarchy,
// its labels and its member associations.
package boards

import (
	"context"
	"strings"

	"taskboard/internal/guard"
	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// Service runs each board operation in exactly one transaction. Tree
// deletions go through guard.GuardedDelete and carry no ownership check.
type Service struct {
	store *sqlite.Store
}

// NewService returns a Service backed by store.
func NewService(store *sqlite.Store) *Service {
	return &Service{store: store}
}

func inTx[T any](ctx context.Context, store *sqlite.Store, fn func(tx *sqlite.Tx) (T, error)) (T, error) {
	var out T
	err := store.InTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		out, err = fn(tx)
		return err
	})
	return out, err
}

func (s *Service) guardedDelete(ctx context.Context, level guard.Level, id int64) error {
	return s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		return guard.GuardedDelete(ctx, tx, level, id)
	})
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.Invalid("name", "must not be empty")
	}
	return name, nil
}

func position(p int64) int64 {
	if p <= 0 {
		return models.DefaultPosition
	}
	return p
}

// Workspaces

// CreateWorkspace stores a workspace and makes actorID its first member.
func (s *Service) CreateWorkspace(ctx context.Context, actorID int64, name string) (models.Workspace, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Workspace{}, err
	}
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Workspace, error) {
		if err := tx.RequireExists(ctx, models.KindMember, actorID); err != nil {
			return models.Workspace{}, err
		}
		w, err := tx.CreateWorkspace(ctx, name)
		if err != nil {
			return models.Workspace{}, err
		}
		if err := tx.Link(ctx, sqlite.WorkspaceMembers, w.ID, actorID); err != nil {
			return models.Workspace{}, err
		}
		return w, nil
	})
}

// GetWorkspace returns the workspace with id.
func (s *Service) GetWorkspace(ctx context.Context, id int64) (models.Workspace, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Workspace, error) {
		return tx.GetWorkspace(ctx, id)
	})
}

// ListWorkspaces returns every workspace.
func (s *Service) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) ([]models.Workspace, error) {
		return tx.ListWorkspaces(ctx)
	})
}

// WorkspacesOf lists the workspaces memberID belongs to.
func (s *Service) WorkspacesOf(ctx context.Context, memberID int64) ([]models.Workspace, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) ([]models.Workspace, error) {
		return tx.ListWorkspacesForMember(ctx, memberID)
	})
}

// RenameWorkspace sets a new, non-empty name.
func (s *Service) RenameWorkspace(ctx context.Context, id int64, name string) (models.Workspace, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Workspace{}, err
	}
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Workspace, error) {
		return tx.UpdateWorkspace(ctx, models.Workspace{ID: id, Name: name})
	})
}

// DeleteWorkspace fails with HasDependentsError while boards remain.
func (s *Service) DeleteWorkspace(ctx context.Context, id int64) error {
	return s.guardedDelete(ctx, guard.WorkspaceLevel, id)
}

// Boards

// BoardInput holds the fields of a new board.
type BoardInput struct {
	Name       string
	Background string
	Visibility models.Visibility
}

// BoardPatch changes only the non-nil fields.
type BoardPatch struct {
	Name       *string
	Background *string
	Visibility *models.Visibility
}

// CreateBoard adds a board to an existing workspace.
func (s *Service) CreateBoard(ctx context.Context, workspaceID int64, in BoardInput) (models.Board, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return models.Board{}, err
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !visibility.Valid() {
		return models.Board{}, models.Invalid("visibility", "must be private or public")
	}
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Board, error) {
		if err := tx.RequireExists(ctx, models.KindWorkspace, workspaceID); err != nil {
			return models.Board{}, err
		}
		return tx.CreateBoard(ctx, models.Board{
			WorkspaceID: workspaceID,
			Name:        name,
			Background:  strings.TrimSpace(in.Background),
			Visibility:  visibility,
		})
	})
}

// GetBoard returns the board with id.
func (s *Service) GetBoard(ctx context.Context, id int64) (models.Board, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Board, error) {
		return tx.GetBoard(ctx, id)
	})
}

// ListBoards returns the boards of a workspace.
func (s *Service) ListBoards(ctx context.Context, workspaceID int64) ([]models.Board, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) ([]models.Board, error) {
		if err := tx.RequireExists(ctx, models.KindWorkspace, workspaceID); err != nil {
			return nil, err
		}
		return tx.ListBoards(ctx, workspaceID)
	})
}

// UpdateBoard applies patch to the board with id.
func (s *Service) UpdateBoard(ctx context.Context, id int64, patch BoardPatch) (models.Board, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Board, error) {
		b, err := tx.GetBoard(ctx, id)
		if err != nil {
			return models.Board{}, err
		}
		if patch.Name != nil {
			if b.Name, err = requireName(*patch.Name); err != nil {
				return models.Board{}, err
			}
		}
		if patch.Background != nil {
			b.Background = strings.TrimSpace(*patch.Background)
		}
		if patch.Visibility != nil {
			if !patch.Visibility.Valid() {
				return models.Board{}, models.Invalid("visibility", "must be private or public")
			}
			b.Visibility = *patch.Visibility
		}
		return tx.UpdateBoard(ctx, b)
	})
}

// DeleteBoard fails with HasDependentsError while lists remain.
func (s *Service) DeleteBoard(ctx context.Context, id int64) error {
	return s.guardedDelete(ctx, guard.BoardLevel, id)
}

// Lists

// ListInput holds the fields of a new list.
type ListInput struct {
	Name     string
	Position int64
	Closed   bool
}

// ListPatch changes only the non-nil fields.
type ListPatch struct {
	Name     *string
	Position *int64
	Closed   *bool
}

// CreateList adds a list to an existing board.
func (s *Service) CreateList(ctx context.Context, boardID int64, in ListInput) (models.List, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return models.List{}, err
	}
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.List, error) {
		if err := tx.RequireExists(ctx, models.KindBoard, boardID); err != nil {
			return models.List{}, err
		}
		return tx.CreateList(ctx, models.List{BoardID: boardID, Name: name, Position: position(in.Position), Closed: in.Closed})
	})
}

// GetList returns the list with id.
func (s *Service) GetList(ctx context.Context, id int64) (models.List, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.List, error) {
		return tx.GetList(ctx, id)
	})
}

// ListLists returns a board's lists ordered by position.
func (s *Service) ListLists(ctx context.Context, boardID int64) ([]models.List, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) ([]models.List, error) {
		if err := tx.RequireExists(ctx, models.KindBoard, boardID); err != nil {
			return nil, err
		}
		return tx.ListLists(ctx, boardID)
	})
}

// UpdateList applies patch to the list with id.
func (s *Service) UpdateList(ctx context.Context, id int64, patch ListPatch) (models.List, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.List, error) {
		l, err := tx.GetList(ctx, id)
		if err != nil {
			return models.List{}, err
		}
		if patch.Name != nil {
			if l.Name, err = requireName(*patch.Name); err != nil {
				return models.List{}, err
			}
		}
		if patch.Position != nil {
			l.Position = position(*patch.Position)
		}
		if patch.Closed != nil {
			l.Closed = *patch.Closed
		}
		return tx.UpdateList(ctx, l)
	})
}

// DeleteList fails with HasDependentsError while cards remain.
func (s *Service) DeleteList(ctx context.Context, id int64) error {
	return s.guardedDelete(ctx, guard.ListLevel, id)
}
