// Package auth stores and verifies member credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// Credentials registers members and verifies their passwords with bcrypt.
type Credentials struct {
	store *sqlite.Store
	cost  int
	// dummy is compared against when the username is unknown so that both
	// failure paths cost one bcrypt comparison.
	dummy []byte
}

// NewCredentials returns a credential store hashing with the given bcrypt
// cost; out-of-range costs fall back to bcrypt.DefaultCost.
func NewCredentials(store *sqlite.Store, cost int) (*Credentials, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("taskboard-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &Credentials{store: store, cost: cost, dummy: dummy}, nil
}

// Register creates a member. It fails with models.ErrUsernameTaken when the
// username is already in use.
func (c *Credentials) Register(ctx context.Context, username, password string) (models.Member, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.Member{}, models.Invalid("username", "must not be empty")
	}
	if password == "" {
		return models.Member{}, models.Invalid("password", "must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return models.Member{}, fmt.Errorf("hash password: %w", err)
	}

	var member models.Member
	err = c.store.InTx(ctx, func(tx *sqlite.Tx) error {
		member, err = tx.CreateMember(ctx, models.Member{Username: username, PasswordHash: string(hash)})
		return err
	})
	return member, err
}

// Verify returns the member when password matches. Unknown usernames and
// wrong passwords both yield models.ErrInvalidCredentials.
func (c *Credentials) Verify(ctx context.Context, username, password string) (models.Member, error) {
	var member models.Member
	err := c.store.InTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		member, err = tx.GetMemberByUsername(ctx, strings.TrimSpace(username))
		return err
	})
	if errors.Is(err, models.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(c.dummy, []byte(password))
		return models.Member{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Member{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return models.Member{}, models.ErrInvalidCredentials
	}
	return member, nil
}

// Lookup finds a member by username without checking a password. Unknown
// usernames yield models.ErrInvalidCredentials.
func (c *Credentials) Lookup(ctx context.Context, username string) (models.Member, error) {
	var member models.Member
	err := c.store.InTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		member, err = tx.GetMemberByUsername(ctx, strings.TrimSpace(username))
		return err
	})
	if errors.Is(err, models.ErrNotFound) {
		return models.Member{}, models.ErrInvalidCredentials
	}
	return member, err
}

// ChangePassword replaces the password of memberID after checking current.
func (c *Credentials) ChangePassword(ctx context.Context, memberID int64, current, next string) error {
	if next == "" {
		return models.Invalid("new password", "must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), c.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return c.store.InTx(ctx, func(tx *sqlite.Tx) error {
		member, err := tx.GetMember(ctx, memberID)
		if err != nil {
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(current)); err != nil {
			return models.ErrInvalidCredentials
		}
		return tx.SetMemberPassword(ctx, memberID, string(hash))
	})
}
