package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gatekeeper-bot/internal/model"
)

// AdminRepository handles the admin roster.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Add grants admin rights. Adding an existing admin is a no-op.
func (r *AdminRepository) Add(ctx context.Context, userID int64) error {
	admin := model.Admin{UserID: userID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	return nil
}

// Remove revokes admin rights. Removing an unknown id is a no-op.
func (r *AdminRepository) Remove(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Admin{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	return nil
}

func (r *AdminRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Admin{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return n > 0, nil
}

func (r *AdminRepository) List(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&model.Admin{}).Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return ids, nil
}
