package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/models"
)

func (t *Tx) insert(ctx context.Context, what, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", what, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s id: %w", what, err)
	}
	return id, nil
}

func (t *Tx) update(ctx context.Context, kind models.Kind, id int64, query string, args ...any) error {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	return expectAffected(res, kind, id)
}

func notFoundOr(err error, kind models.Kind, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFound(kind, id)
	}
	return fmt.Errorf("get %s: %w", kind, err)
}

// Workspaces

// CreateWorkspace inserts a workspace named name and returns it.
func (t *Tx) CreateWorkspace(ctx context.Context, name string) (models.Workspace, error) {
	id, err := t.insert(ctx, "workspace", `INSERT INTO workspaces(name) VALUES(?)`, name)
	if err != nil {
		return models.Workspace{}, err
	}
	return t.GetWorkspace(ctx, id)
}

// GetWorkspace returns the workspace with id or a not-found error.
func (t *Tx) GetWorkspace(ctx context.Context, id int64) (models.Workspace, error) {
	var w models.Workspace
	err := t.tx.QueryRowContext(ctx, `SELECT id, name, created_at FROM workspaces WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.CreatedAt)
	if err != nil {
		return models.Workspace{}, notFoundOr(err, models.KindWorkspace, id)
	}
	return w, nil
}

// ListWorkspaces returns all workspaces ordered by id.
func (t *Tx) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	return t.queryWorkspaces(ctx, `SELECT id, name, created_at FROM workspaces ORDER BY id`)
}

// UpdateWorkspace writes the mutable fields of w.
func (t *Tx) UpdateWorkspace(ctx context.Context, w models.Workspace) (models.Workspace, error) {
	if err := t.update(ctx, models.KindWorkspace, w.ID, `UPDATE workspaces SET name = ? WHERE id = ?`, w.Name, w.ID); err != nil {
		return models.Workspace{}, err
	}
	return t.GetWorkspace(ctx, w.ID)
}

func (t *Tx) queryWorkspaces(ctx context.Context, query string, args ...any) ([]models.Workspace, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []models.Workspace{}
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

// Boards

const boardColumns = `id, workspace_id, name, background, visibility, created_at`

func scanBoard(row interface{ Scan(...any) error }) (models.Board, error) {
	var b models.Board
	err := row.Scan(&b.ID, &b.WorkspaceID, &b.Name, &b.Background, &b.Visibility, &b.CreatedAt)
	return b, err
}

// CreateBoard inserts b and returns it with its id.
func (t *Tx) CreateBoard(ctx context.Context, b models.Board) (models.Board, error) {
	id, err := t.insert(ctx, "board", `INSERT INTO boards(workspace_id, name, background, visibility) VALUES(?, ?, ?, ?)`,
		b.WorkspaceID, b.Name, b.Background, b.Visibility)
	if err != nil {
		return models.Board{}, err
	}
	return t.GetBoard(ctx, id)
}

// GetBoard returns the board with id or a not-found error.
func (t *Tx) GetBoard(ctx context.Context, id int64) (models.Board, error) {
	b, err := scanBoard(t.tx.QueryRowContext(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = ?`, id))
	if err != nil {
		return models.Board{}, notFoundOr(err, models.KindBoard, id)
	}
	return b, nil
}

// ListBoards returns a workspace's boards ordered by id.
func (t *Tx) ListBoards(ctx context.Context, workspaceID int64) ([]models.Board, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+boardColumns+` FROM boards WHERE workspace_id = ? ORDER BY id`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	boards := []models.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// UpdateBoard writes the mutable fields of b.
func (t *Tx) UpdateBoard(ctx context.Context, b models.Board) (models.Board, error) {
	err := t.update(ctx, models.KindBoard, b.ID, `UPDATE boards SET name = ?, background = ?, visibility = ? WHERE id = ?`,
		b.Name, b.Background, b.Visibility, b.ID)
	if err != nil {
		return models.Board{}, err
	}
	return t.GetBoard(ctx, b.ID)
}

// Lists

const listColumns = `id, board_id, name, position, closed, created_at`

func scanList(row interface{ Scan(...any) error }) (models.List, error) {
	var l models.List
	err := row.Scan(&l.ID, &l.BoardID, &l.Name, &l.Position, &l.Closed, &l.CreatedAt)
	return l, err
}

// CreateList inserts l and returns it with its id.
func (t *Tx) CreateList(ctx context.Context, l models.List) (models.List, error) {
	id, err := t.insert(ctx, "list", `INSERT INTO lists(board_id, name, position, closed) VALUES(?, ?, ?, ?)`,
		l.BoardID, l.Name, l.Position, l.Closed)
	if err != nil {
		return models.List{}, err
	}
	return t.GetList(ctx, id)
}

// GetList returns the list with id or a not-found error.
func (t *Tx) GetList(ctx context.Context, id int64) (models.List, error) {
	l, err := scanList(t.tx.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id))
	if err != nil {
		return models.List{}, notFoundOr(err, models.KindList, id)
	}
	return l, nil
}

// ListLists returns the lists of a board in render order.
func (t *Tx) ListLists(ctx context.Context, boardID int64) ([]models.List, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+listColumns+` FROM lists WHERE board_id = ? ORDER BY position, id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	lists := []models.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// UpdateList writes the mutable fields of l.
func (t *Tx) UpdateList(ctx context.Context, l models.List) (models.List, error) {
	err := t.update(ctx, models.KindList, l.ID, `UPDATE lists SET name = ?, position = ?, closed = ? WHERE id = ?`,
		l.Name, l.Position, l.Closed, l.ID)
	if err != nil {
		return models.List{}, err
	}
	return t.GetList(ctx, l.ID)
}

// Cards

const cardColumns = `id, list_id, name, description, due_date, position, archived, created_at`

func scanCard(row interface{ Scan(...any) error }) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.ListID, &c.Name, &c.Description, &c.DueDate, &c.Position, &c.Archived, &c.CreatedAt)
	return c, err
}

// CreateCard inserts c and returns it with its id.
func (t *Tx) CreateCard(ctx context.Context, c models.Card) (models.Card, error) {
	id, err := t.insert(ctx, "card", `INSERT INTO cards(list_id, name, description, due_date, position, archived) VALUES(?, ?, ?, ?, ?, ?)`,
		c.ListID, c.Name, c.Description, c.DueDate, c.Position, c.Archived)
	if err != nil {
		return models.Card{}, err
	}
	return t.GetCard(ctx, id)
}

// GetCard returns the card with id or a not-found error.
func (t *Tx) GetCard(ctx context.Context, id int64) (models.Card, error) {
	c, err := scanCard(t.tx.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if err != nil {
		return models.Card{}, notFoundOr(err, models.KindCard, id)
	}
	return c, nil
}

// ListCards returns the cards of a list in render order.
func (t *Tx) ListCards(ctx context.Context, listID int64) ([]models.Card, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE list_id = ? ORDER BY position, id`, listID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateCard writes the mutable fields of c.
func (t *Tx) UpdateCard(ctx context.Context, c models.Card) (models.Card, error) {
	err := t.update(ctx, models.KindCard, c.ID, `UPDATE cards SET list_id = ?, name = ?, description = ?, due_date = ?, position = ?, archived = ? WHERE id = ?`,
		c.ListID, c.Name, c.Description, c.DueDate, c.Position, c.Archived, c.ID)
	if err != nil {
		return models.Card{}, err
	}
	return t.GetCard(ctx, c.ID)
}

// Labels

// CreateLabel inserts l and returns it with its id.
func (t *Tx) CreateLabel(ctx context.Context, l models.Label) (models.Label, error) {
	id, err := t.insert(ctx, "label", `INSERT INTO labels(name, color) VALUES(?, ?)`, l.Name, l.Color)
	if err != nil {
		return models.Label{}, err
	}
	return t.GetLabel(ctx, id)
}

// GetLabel returns the label with id or a not-found error.
func (t *Tx) GetLabel(ctx context.Context, id int64) (models.Label, error) {
	var l models.Label
	err := t.tx.QueryRowContext(ctx, `SELECT id, name, color FROM labels WHERE id = ?`, id).Scan(&l.ID, &l.Name, &l.Color)
	if err != nil {
		return models.Label{}, notFoundOr(err, models.KindLabel, id)
	}
	return l, nil
}

// ListLabels returns all labels ordered by name.
func (t *Tx) ListLabels(ctx context.Context) ([]models.Label, error) {
	return t.queryLabels(ctx, `SELECT id, name, color FROM labels ORDER BY name, id`)
}

// UpdateLabel writes the mutable fields of l.
func (t *Tx) UpdateLabel(ctx context.Context, l models.Label) (models.Label, error) {
	if err := t.update(ctx, models.KindLabel, l.ID, `UPDATE labels SET name = ?, color = ? WHERE id = ?`, l.Name, l.Color, l.ID); err != nil {
		return models.Label{}, err
	}
	return t.GetLabel(ctx, l.ID)
}

func (t *Tx) queryLabels(ctx context.Context, query string, args ...any) ([]models.Label, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
