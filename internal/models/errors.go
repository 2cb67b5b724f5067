package models

import (
	"errors"
	"fmt"
)

// Kind names an entity type in errors and guard rules.
type Kind string

const (
	KindMember    Kind = "member"
	KindTask      Kind = "task"
	KindWorkspace Kind = "workspace"
	KindBoard     Kind = "board"
	KindList      Kind = "list"
	KindCard      Kind = "card"
	KindLabel     Kind = "label"
)

// Plural returns the collection name used in user-facing messages.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Action is a mutation an actor attempts on an entity.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrHasDependents      = errors.New("has dependents")
	ErrInvalid            = errors.New("invalid input")
)

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Kind Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ForbiddenError reports an actor attempting an action it may not perform.
type ForbiddenError struct {
	ActorID  int64
	EntityID int64
	Action   Action
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("you do not have permission to %s this task", e.Action)
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// HasDependentsError blocks deleting a parent that still has children.
type HasDependentsError struct {
	Kind      Kind
	ChildKind Kind
	Count     int
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("delete all %s belonging to this %s first (%d remaining)", e.ChildKind.Plural(), e.Kind, e.Count)
}

func (e *HasDependentsError) Is(target error) bool { return target == ErrHasDependents }

// ValidationError rejects malformed input before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// NotFound is shorthand for constructing a NotFoundError.
func NotFound(kind Kind, id int64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// Invalid is shorthand for constructing a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
