package boards

import (
	"context"
	"strings"

	"taskboard/internal/guard"
	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// CardInput holds the fields of a new card.
type CardInput struct {
	Name        string
	Description string
	DueDate     string
	Position    int64
}

// CardPatch changes the given fields; ListID moves the card to another list.
type CardPatch struct {
	ListID      *int64
	Name        *string
	Description *string
	DueDate     *string
	Position    *int64
	Archived    *bool
}

// CreateCard adds a card to an existing list.
func (s *Service) CreateCard(ctx context.Context, listID int64, in CardInput) (models.Card, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return models.Card{}, err
	}
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Card, error) {
		if err := tx.RequireExists(ctx, models.KindList, listID); err != nil {
			return models.Card{}, err
		}
		return tx.CreateCard(ctx, models.Card{
			ListID:      listID,
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			DueDate:     strings.TrimSpace(in.DueDate),
			Position:    position(in.Position),
		})
	})
}

// GetCard returns the card with id.
func (s *Service) GetCard(ctx context.Context, id int64) (models.Card, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Card, error) {
		return tx.GetCard(ctx, id)
	})
}

// ListCards returns a list's cards ordered by position.
func (s *Service) ListCards(ctx context.Context, listID int64) ([]models.Card, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) ([]models.Card, error) {
		if err := tx.RequireExists(ctx, models.KindList, listID); err != nil {
			return nil, err
		}
		return tx.ListCards(ctx, listID)
	})
}

// UpdateCard applies patch to the card with id.
func (s *Service) UpdateCard(ctx context.Context, id int64, patch CardPatch) (models.Card, error) {
	return inTx(ctx, s.store, func(tx *sqlite.Tx) (models.Card, error) {
		c, err := tx.GetCard(ctx, id)
		if err != nil {
			return models.Card{}, err
		}
		if patch.ListID != nil && *patch.ListID != c.ListID {
			if err := tx.RequireExists(ctx, models.KindList, *patch.ListID); err != nil {
				return models.Card{}, err
			}
			c.ListID = *patch.ListID
		}
		if patch.Name != nil {
			if c.Name, err = requireName(*patch.Name); err != nil {
				return models.Card{}, err
			}
		}
		if patch.Description != nil {
			c.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.DueDate != nil {
			c.DueDate = strings.TrimSpace(*patch.DueDate)
		}
		if patch.Position != nil {
			c.Position = position(*patch.Position)
		}
		if patch.Archived != nil {
			c.Archived = *patch.Archived
		}
		return tx.UpdateCard(ctx, c)
	})
}

// DeleteCard always succeeds for an existing card; its label and member
// associations go with it.
func (s *Service) DeleteCard(ctx context.Context, id int64) error {
	return s.guardedDelete(ctx, guard.CardLevel, id)
}

// AddCardLabel attaches a label to a card.
func (s *Service) AddCardLabel(ctx context.Context, cardID, labelID int64) error {
	return s.link(ctx, sqlite.CardLabels, cardID, labelID)
}

// RemoveCardLabel detaches a label from a card.
func (s *Service) RemoveCardLabel(ctx context.Context, cardID, labelID int64) error {
	return s.unlink(ctx, sqlite.CardLabels, cardID, labelID)
}

// CardLabels returns the labels attached to a card.
func (s *Service) CardLabels(ctx context.Context, cardID int64) ([]models.Label, error) {
	return linkedLabels(ctx, s.store, sqlite.CardLabels, cardID)
}

// AddCardMember assigns a member to a card.
func (s *Service) AddCardMember(ctx context.Context, cardID, memberID int64) error {
	return s.link(ctx, sqlite.CardMembers, cardID, memberID)
}

// RemoveCardMember unassigns a member from a card.
func (s *Service) RemoveCardMember(ctx context.Context, cardID, memberID int64) error {
	return s.unlink(ctx, sqlite.CardMembers, cardID, memberID)
}

// CardMembers returns the members assigned to a card.
func (s *Service) CardMembers(ctx context.Context, cardID int64) ([]models.Member, error) {
	return linkedMembers(ctx, s.store, sqlite.CardMembers, cardID)
}
