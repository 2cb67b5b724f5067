package sqlite

import (
	"context"
	"fmt"

	"taskboard/internal/models"
)

// Relation describes a many-to-many association table. Rows have no
// identity of their own beyond the two foreign keys.
type Relation struct {
	Table     string
	Left      string
	Right     string
	LeftKind  models.Kind
	RightKind models.Kind
}

var (
	WorkspaceMembers = Relation{Table: "workspace_members", Left: "workspace_id", Right: "member_id", LeftKind: models.KindWorkspace, RightKind: models.KindMember}
	BoardMembers     = Relation{Table: "board_members", Left: "board_id", Right: "member_id", LeftKind: models.KindBoard, RightKind: models.KindMember}
	BoardLabels      = Relation{Table: "board_labels", Left: "board_id", Right: "label_id", LeftKind: models.KindBoard, RightKind: models.KindLabel}
	CardLabels       = Relation{Table: "card_labels", Left: "card_id", Right: "label_id", LeftKind: models.KindCard, RightKind: models.KindLabel}
	CardMembers      = Relation{Table: "card_members", Left: "card_id", Right: "member_id", LeftKind: models.KindCard, RightKind: models.KindMember}
)

// Link associates leftID with rightID. Linking twice is a no-op.
func (t *Tx) Link(ctx context.Context, rel Relation, leftID, rightID int64) error {
	if err := t.RequireExists(ctx, rel.LeftKind, leftID); err != nil {
		return err
	}
	if err := t.RequireExists(ctx, rel.RightKind, rightID); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `INSERT OR IGNORE INTO `+rel.Table+`(`+rel.Left+`, `+rel.Right+`) VALUES(?, ?)`, leftID, rightID)
	if err != nil {
		return fmt.Errorf("link %s: %w", rel.Table, err)
	}
	return nil
}

// Unlink removes the association; a missing association reports the right
// side as not found.
func (t *Tx) Unlink(ctx context.Context, rel Relation, leftID, rightID int64) error {
	if err := t.RequireExists(ctx, rel.LeftKind, leftID); err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, `DELETE FROM `+rel.Table+` WHERE `+rel.Left+` = ? AND `+rel.Right+` = ?`, leftID, rightID)
	if err != nil {
		return fmt.Errorf("unlink %s: %w", rel.Table, err)
	}
	return expectAffected(res, rel.RightKind, rightID)
}

// LinkedMembers lists the members associated with leftID through rel.
func (t *Tx) LinkedMembers(ctx context.Context, rel Relation, leftID int64) ([]models.Member, error) {
	if rel.RightKind != models.KindMember {
		return nil, fmt.Errorf("%s does not link members", rel.Table)
	}
	return t.queryMembers(ctx, `SELECT m.id, m.username, m.full_name, m.avatar, m.role, m.password_hash, m.created_at
        FROM members m JOIN `+rel.Table+` r ON r.`+rel.Right+` = m.id
        WHERE r.`+rel.Left+` = ? ORDER BY m.username`, leftID)
}

// LinkedLabels lists the labels associated with leftID through rel.
func (t *Tx) LinkedLabels(ctx context.Context, rel Relation, leftID int64) ([]models.Label, error) {
	if rel.RightKind != models.KindLabel {
		return nil, fmt.Errorf("%s does not link labels", rel.Table)
	}
	return t.queryLabels(ctx, `SELECT l.id, l.name, l.color
        FROM labels l JOIN `+rel.Table+` r ON r.`+rel.Right+` = l.id
        WHERE r.`+rel.Left+` = ? ORDER BY l.name, l.id`, leftID)
}

// ListWorkspacesForMember returns the workspaces memberID belongs to.
func (t *Tx) ListWorkspacesForMember(ctx context.Context, memberID int64) ([]models.Workspace, error) {
	return t.queryWorkspaces(ctx, `SELECT w.id, w.name, w.created_at
        FROM workspaces w JOIN workspace_members wm ON wm.workspace_id = w.id
        WHERE wm.member_id = ? ORDER BY w.id`, memberID)
}
