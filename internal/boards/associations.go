package boards

import (
	"context"
	"strings"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

func linkedMembers(ctx context.Context, store *sqlite.Store, rel sqlite.Relation, id int64) ([]models.Member, error) {
	return inTx(ctx, store, func(tx *sqlite.Tx) ([]models.Member, error) {
		if err := tx.RequireExists(ctx, rel.LeftKind, id); err != nil {
			return nil, err
		}
		return tx.LinkedMembers(ctx, rel, id)
	})
}

func linkedLabels(ctx context.Context, store *sqlite.Store, rel sqlite.Relation, id int64) ([]models.Label, error) {
	return inTx(ctx, store, func(tx *sqlite.Tx) ([]models.Label, error) {
		if err := tx.RequireExists(ctx, rel.LeftKind, id); err != nil {
			return nil, err
		}
		return tx.LinkedLabels(ctx, rel, id)
	})
}

func (s *Service) link(ctx context.Context, rel sqlite.Relation, left, right int64) error {
	return s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		return tx.Link(ctx, rel, left, right)
	})
}

func (s *Service) unlink(ctx context.Context, rel sqlite.Relation, left, right int64) error {
	return s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		return tx.Unlink(ctx, rel, left, right)
	})
}

// Workspace members

// AddWorkspaceMember adds a member to a workspace.
func (s *Service) AddWorkspaceMember(ctx context.Context, workspaceID, memberID int64) error {
	return s.link(ctx, sqlite.WorkspaceMembers, workspaceID, memberID)
}

// RemoveWorkspaceMember removes a member from a workspace.
func (s *Service) RemoveWorkspaceMember(ctx context.Context, workspaceID, memberID int64) error {
	return s.unlink(ctx, sqlite.WorkspaceMembers, workspaceID, memberID)
}

// WorkspaceMembers returns the members of a workspace.
func (s *Service) WorkspaceMembers(ctx context.Context, workspaceID int64) ([]models.Member, error) {
	return linkedMembers(ctx, s.store, sqlite.WorkspaceMembers, workspaceID)
}

// Board members and labels

// AddBoardMember adds a member to a board.
func (s *Service) AddBoardMember(ctx context.Context, boardID, memberID int64) error {
	return s.link(ctx, sqlite.BoardMembers, boardID, memberID)
}

// RemoveBoardMember removes a member from a board.
func (s *Service) RemoveBoardMember(ctx context.Context, boardID, memberID int64) error {
	return s.unlink(ctx, sqlite.BoardMembers, boardID, memberID)
}

// BoardMembers returns the members of a board.
func (s *Service) BoardMembers(ctx context.Context, boardID int64) ([]models.Member, error) {
	return linkedMembers(ctx, s.store, sqlite.BoardMembers, boardID)
}

// AttachBoardLabel makes a label available on a board.
func (s *Service) AttachBoardLabel(ctx context.Context, boardID, labelID int64) error {
	return s.link(ctx, sqlite.BoardLabels, boardID, labelID)
}

// DetachBoardLabel removes a label from a board.
func (s *Service) DetachBoardLabel(ctx context.Context, boardID, labelID int64) error {
	return s.unlink(ctx, sqlite.BoardLabels, boardID, labelID)
}

// BoardLabels returns the labels attached to a board.
func (s *Service) BoardLabels(ctx context.Context, boardID int64) ([]models.Label, error) {
	return linkedLabels(ctx, s.store, sqlite.BoardLabels, boardID)
}

// Labels

// LabelPatch changes only the non-nil fields.
type LabelPatch struct {
	Name  *string
	Color *string
}

// CreateLabel stores a label with a non-empty name.
func (s *Service) CreateLabel(ctx context.Context, name, color string) (models.Label, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Label{}, err
	}
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Label, error) {
		return tx.CreateLabel(ctx, models.Label{Name: name, Color: strings.TrimSpace(color)})
	})
}

// GetLabel returns the label with id.
func (s *Service) GetLabel(ctx context.Context, id int64) (models.Label, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Label, error) {
		return tx.GetLabel(ctx, id)
	})
}

// ListLabels returns every label.
func (s *Service) ListLabels(ctx context.Context) ([]models.Label, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) ([]models.Label, error) {
		return tx.ListLabels(ctx)
	})
}

// UpdateLabel applies patch to the label with id.
func (s *Service) UpdateLabel(ctx context.Context, id int64, patch LabelPatch) (models.Label, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Label, error) {
		l, err := tx.GetLabel(ctx, id)
		if err != nil {
			return models.Label{}, err
		}
		if patch.Name != nil {
			if l.Name, err = requireName(*patch.Name); err != nil {
				return models.Label{}, err
			}
		}
		if patch.Color != nil {
			l.Color = strings.TrimSpace(*patch.Color)
		}
		return tx.UpdateLabel(ctx, l)
	})
}

// DeleteLabel removes a label from every board and card it was attached to.
func (s *Service) DeleteLabel(ctx context.Context, id int64) error {
	return s.store.InTx(ctx, func(tx *sqlite.Tx) error {
		return tx.Delete(ctx, models.KindLabel, id)
	})
}
