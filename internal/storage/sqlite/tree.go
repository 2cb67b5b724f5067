package sqlite

import (
	"context"
	"fmt"

	"taskboard/internal/guard"
	"taskboard/internal/models"
)

// tables maps entity kinds to their table names.
var tables = map[models.Kind]string{
	models.KindMember:    "members",
	models.KindTask:      "tasks",
	models.KindWorkspace: "workspaces",
	models.KindBoard:     "boards",
	models.KindList:      "lists",
	models.KindCard:      "cards",
	models.KindLabel:     "labels",
}

// parentColumns maps a child kind to the column referencing its parent.
var parentColumns = map[models.Kind]string{
	models.KindBoard: "workspace_id",
	models.KindList:  "board_id",
	models.KindCard:  "list_id",
}

var _ guard.Tx = (*Tx)(nil)

func tableFor(kind models.Kind) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}
	return table, nil
}

// Exists reports whether an entity of kind with id is present.
func (t *Tx) Exists(ctx context.Context, kind models.Kind, id int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	var found int
	err = t.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = ?)`, id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", kind, err)
	}
	return found == 1, nil
}

// CountChildren counts the direct children of id on the given tree level.
func (t *Tx) CountChildren(ctx context.Context, level guard.Level, id int64) (int, error) {
	table, err := tableFor(level.ChildKind)
	if err != nil {
		return 0, err
	}
	column, ok := parentColumns[level.ChildKind]
	if !ok {
		return 0, fmt.Errorf("%s has no parent column", level.ChildKind)
	}
	var n int
	if err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE `+column+` = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", level.ChildKind.Plural(), err)
	}
	return n, nil
}

// Delete removes a row unconditionally; association rows follow through
// ON DELETE CASCADE. Use guard.GuardedDelete for tree entities.
func (t *Tx) Delete(ctx context.Context, kind models.Kind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, kind, id)
}

// RequireExists returns a NotFoundError when the referenced entity is absent.
func (t *Tx) RequireExists(ctx context.Context, kind models.Kind, id int64) error {
	ok, err := t.Exists(ctx, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NotFound(kind, id)
	}
	return nil
}
