package repository

import (
	"context"
	"time"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// PurchaseRepository 购买记录仓储
type PurchaseRepository struct {
	orm *gorm.DB
}

// NewPurchaseRepository 创建PurchaseRepository实例
func NewPurchaseRepository(orm *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{orm: orm}
}

// Create 创建购买记录
func (r *PurchaseRepository) Create(ctx context.Context, p *model.Purchase) error {
	return r.orm.WithContext(ctx).Omit("Game").Create(p).Error
}

// ByUser 用户全部购买记录
func (r *PurchaseRepository) ByUser(ctx context.Context, userID uint) ([]*model.Purchase, error) {
	var list []*model.Purchase
	err := r.orm.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchase_date ASC, id ASC").
		Find(&list).Error
	return list, err
}

// Exists 用户是否已购买游戏
func (r *PurchaseRepository) Exists(ctx context.Context, userID, gameID uint) (bool, error) {
	var count int64
	err := r.orm.WithContext(ctx).Model(&model.Purchase{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Count(&count).Error
	return count > 0, err
}

// PurchaseFilter 购买记录查询条件
// MinAmount/MaxAmount 为 nil 表示不限，区间为 [min, max)
type PurchaseFilter struct {
	UserID    uint
	FromDate  time.Time
	MinAmount *float64
	MaxAmount *float64
}

// Find 按条件查询购买记录
func (r *PurchaseRepository) Find(ctx context.Context, f PurchaseFilter) ([]*model.Purchase, error) {
	q := r.orm.WithContext(ctx).
		Preload("Game.Genres").
		Where("user_id = ? AND purchase_date >= ?", f.UserID, f.FromDate)

	switch {
	case f.MinAmount != nil && f.MaxAmount != nil:
		q = q.Where("amount >= ? AND amount < ?", *f.MinAmount, *f.MaxAmount)
	case f.MinAmount != nil:
		q = q.Where("amount >= ?", *f.MinAmount)
	case f.MaxAmount != nil:
		q = q.Where("amount < ?", *f.MaxAmount)
	}

	var list []*model.Purchase
	err := q.Order("purchase_date ASC, id ASC").Find(&list).Error
	return list, err
}
