package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gatekeeper-bot/internal/model"
)

// UserRepository handles CRUD for known bot users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert records a sighting of a Telegram user. The first name is refreshed
// on every call; JoinedAt is preserved from the first sighting.
func (r *UserRepository) Upsert(ctx context.Context, telegramID int64, firstName string, seenAt time.Time) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		if err := db.Model(&user).Update("first_name", firstName).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.FirstName = firstName
		return &user, nil
	case err == gorm.ErrRecordNotFound:
		user = model.User{
			TelegramID: telegramID,
			FirstName:  firstName,
			JoinedAt:   seenAt,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

// AllTelegramIDs returns every known user's Telegram id, for broadcast fan-out.
func (r *UserRepository) AllTelegramIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Pluck("telegram_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
