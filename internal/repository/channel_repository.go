package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gatekeeper-bot/internal/model"
)

// ChannelRepository handles the required-channel set.
type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Upsert stores a channel identity. Identity is the primary key, so two
// concurrent adds of the same channel both succeed harmlessly.
func (r *ChannelRepository) Upsert(ctx context.Context, ident string) error {
	ch := model.RequiredChannel{Ident: strings.TrimSpace(ident)}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ch).Error; err != nil {
		return fmt.Errorf("upsert channel: %w", err)
	}
	return nil
}

// Delete removes a channel identity; a missing identity is a no-op.
func (r *ChannelRepository) Delete(ctx context.Context, ident string) error {
	if err := r.db.WithContext(ctx).Delete(&model.RequiredChannel{}, "ident = ?", ident).Error; err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

// List returns channel identities in lexicographic order, so that operator
// listings are deterministic.
func (r *ChannelRepository) List(ctx context.Context) ([]string, error) {
	var idents []string
	if err := r.db.WithContext(ctx).Model(&model.RequiredChannel{}).
		Order("ident ASC").
		Pluck("ident", &idents).Error; err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return idents, nil
}
