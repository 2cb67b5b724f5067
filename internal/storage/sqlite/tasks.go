package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/models"
)

const taskColumns = `id, title, description, status, owner_id, assigned_to_id, created_at, updated_at`

// TaskQuery narrows ListTasks. Zero fields do not constrain the result.
type TaskQuery struct {
	OwnerID    int64
	AssigneeID int64
	// InvolvedID matches tasks owned by or assigned to the member.
	InvolvedID int64
	Status     models.TaskStatus
}

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var (
		t        models.Task
		assignee sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.OwnerID, &assignee, &t.CreatedAt, &t.UpdatedAt)
	if assignee.Valid {
		t.AssignedToID = &assignee.Int64
	}
	return t, err
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// CreateTask inserts a task; the caller validates fields and references.
func (t *Tx) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO tasks(title, description, status, owner_id, assigned_to_id) VALUES(?, ?, ?, ?, ?)`,
		task.Title, task.Description, task.Status, task.OwnerID, nullableID(task.AssignedToID))
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	return t.GetTask(ctx, id)
}

// GetTask retrieves a task by id.
func (t *Tx) GetTask(ctx context.Context, id int64) (models.Task, error) {
	task, err := scanTask(t.tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.NotFound(models.KindTask, id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// UpdateTask writes every mutable column of task.
func (t *Tx) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	res, err := t.tx.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, status = ?, assigned_to_id = ? WHERE id = ?`,
		task.Title, task.Description, task.Status, nullableID(task.AssignedToID), task.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := expectAffected(res, models.KindTask, task.ID); err != nil {
		return models.Task{}, err
	}
	return t.GetTask(ctx, task.ID)
}

// DeleteTask removes a task by id.
func (t *Tx) DeleteTask(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectAffected(res, models.KindTask, id)
}

// ListTasks returns the tasks matching q, newest id first.
func (t *Tx) ListTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	var (
		where []string
		args  []any
	)
	if q.OwnerID != 0 {
		where = append(where, "owner_id = ?")
		args = append(args, q.OwnerID)
	}
	if q.AssigneeID != 0 {
		where = append(where, "assigned_to_id = ?")
		args = append(args, q.AssigneeID)
	}
	if q.InvolvedID != 0 {
		where = append(where, "(owner_id = ? OR assigned_to_id = ?)")
		args = append(args, q.InvolvedID, q.InvolvedID)
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
