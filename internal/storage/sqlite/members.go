package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/models"
)

const memberColumns = `id, username, full_name, avatar, role, password_hash, created_at`

func scanMember(row interface{ Scan(...any) error }) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.Username, &m.FullName, &m.Avatar, &m.Role, &m.PasswordHash, &m.CreatedAt)
	return m, err
}

// CreateMember inserts a member. The UNIQUE index on username makes the
// existence check and the insert one atomic statement.
func (t *Tx) CreateMember(ctx context.Context, m models.Member) (models.Member, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO members(username, full_name, avatar, role, password_hash) VALUES(?, ?, ?, ?, ?)`,
		m.Username, m.FullName, m.Avatar, m.Role, m.PasswordHash)
	if isUniqueViolation(err) {
		return models.Member{}, models.ErrUsernameTaken
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("insert member: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Member{}, fmt.Errorf("member id: %w", err)
	}
	return t.GetMember(ctx, id)
}

// GetMember fetches a member by id.
func (t *Tx) GetMember(ctx context.Context, id int64) (models.Member, error) {
	m, err := scanMember(t.tx.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, models.NotFound(models.KindMember, id)
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// GetMemberByUsername matches the stored username exactly (case-sensitive).
func (t *Tx) GetMemberByUsername(ctx context.Context, username string) (models.Member, error) {
	m, err := scanMember(t.tx.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, fmt.Errorf("member %q: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ListMembers returns all members ordered by username.
func (t *Tx) ListMembers(ctx context.Context) ([]models.Member, error) {
	return t.queryMembers(ctx, `SELECT `+memberColumns+` FROM members ORDER BY username`)
}

// SetMemberPassword replaces the stored hash.
func (t *Tx) SetMemberPassword(ctx context.Context, id int64, hash string) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE members SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return expectAffected(res, models.KindMember, id)
}

func (t *Tx) queryMembers(ctx context.Context, query string, args ...any) ([]models.Member, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func expectAffected(res sql.Result, kind models.Kind, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFound(kind, id)
	}
	return nil
}
