package models

import "time"

// Member is an authenticated identity shared by both applications.
type Member struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Role         string    `json:"role,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TaskStatus is the lifecycle state of a personal task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists the statuses in the order forms render them.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is owned by exactly one member and optionally shared with an assignee.
type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       TaskStatus `json:"status"`
	OwnerID      int64      `json:"owner_id"`
	AssignedToID *int64     `json:"assigned_to_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAssignedTo reports whether memberID is the task's assignee.
func (t Task) IsAssignedTo(memberID int64) bool {
	return t.AssignedToID != nil && *t.AssignedToID == memberID
}

// Visibility controls who may see a board.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// DefaultPosition is assigned to lists and cards created without one.
const DefaultPosition = 1

type Workspace struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Board struct {
	ID          int64      `json:"id"`
	WorkspaceID int64      `json:"workspace_id"`
	Name        string     `json:"name"`
	Background  string     `json:"background"`
	Visibility  Visibility `json:"visibility"`
	CreatedAt   time.Time  `json:"created_at"`
}

// List is an ordered column of cards on a board.
type List struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"board_id"`
	Name      string    `json:"name"`
	Position  int64     `json:"position"`
	Closed    bool      `json:"closed"`
	CreatedAt time.Time `json:"created_at"`
}

type Card struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"list_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date,omitempty"`
	Position    int64     `json:"position"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
}

type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
