package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gatekeeper-bot/internal/model"
)

// ContentRepository handles the free-stuff content pool.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Add appends an item to the pool. Items are never mutated afterwards.
func (r *ContentRepository) Add(ctx context.Context, fileID string, addedBy int64) error {
	item := model.ContentItem{FileID: fileID, AddedBy: addedBy}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return fmt.Errorf("add content item: %w", err)
	}
	return nil
}

// ListFileIDs returns the pool in insertion order, oldest first.
func (r *ContentRepository) ListFileIDs(ctx context.Context) ([]string, error) {
	var fileIDs []string
	if err := r.db.WithContext(ctx).Model(&model.ContentItem{}).
		Order("id ASC").
		Pluck("file_id", &fileIDs).Error; err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}
	return fileIDs, nil
}

func (r *ContentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.ContentItem{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count content items: %w", err)
	}
	return n, nil
}
