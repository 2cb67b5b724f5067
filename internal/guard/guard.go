// Package guard decides whether a mutation may proceed: task ownership rules
// for the task tracker and the cascade-guard rule for the board hierarchy.
package guard

import (
	"context"
	"fmt"

	"taskboard/internal/models"
)

// Level is one tier of the Workspace -> Board -> List -> Card tree.
// A zero ChildKind marks a leaf.
type Level struct {
	Kind      models.Kind
	ChildKind models.Kind
}

// HasChildren reports whether entities on this level can own children.
func (l Level) HasChildren() bool {
	return l.ChildKind != ""
}

var (
	WorkspaceLevel = Level{Kind: models.KindWorkspace, ChildKind: models.KindBoard}
	BoardLevel     = Level{Kind: models.KindBoard, ChildKind: models.KindList}
	ListLevel      = Level{Kind: models.KindList, ChildKind: models.KindCard}
	CardLevel      = Level{Kind: models.KindCard}
)

// Tx is the transactional repository view the cascade guard runs against.
// Exists, CountChildren and Delete must all observe the same transaction.
type Tx interface {
	Exists(ctx context.Context, kind models.Kind, id int64) (bool, error)
	CountChildren(ctx context.Context, level Level, id int64) (int, error)
	Delete(ctx context.Context, kind models.Kind, id int64) error
}

// GuardedDelete removes the entity id on the given level unless it still has
// children. Nothing is written when the entity is missing or blocked.
func GuardedDelete(ctx context.Context, tx Tx, level Level, id int64) error {
	ok, err := tx.Exists(ctx, level.Kind, id)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", level.Kind, err)
	}
	if !ok {
		return models.NotFound(level.Kind, id)
	}

	if level.HasChildren() {
		n, err := tx.CountChildren(ctx, level, id)
		if err != nil {
			return fmt.Errorf("count %s: %w", level.ChildKind.Plural(), err)
		}
		if n > 0 {
			return &models.HasDependentsError{Kind: level.Kind, ChildKind: level.ChildKind, Count: n}
		}
	}

	if err := tx.Delete(ctx, level.Kind, id); err != nil {
		return fmt.Errorf("delete %s: %w", level.Kind, err)
	}
	return nil
}
