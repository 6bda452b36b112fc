package repository

import (
	"context"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据仓储
type ReviewRepository struct {
	orm *gorm.DB
}

// NewReviewRepository 创建ReviewRepository实例
func NewReviewRepository(orm *gorm.DB) *ReviewRepository {
	return &ReviewRepository{orm: orm}
}

// Create 创建评价
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.orm.WithContext(ctx).Create(review).Error
}

// GetByID 根据ID获取评价
func (r *ReviewRepository) GetByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.orm.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Update 更新评分与内容
func (r *ReviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.orm.WithContext(ctx).Model(review).
		Select("rating", "comment", "content").
		Updates(review).Error
}

// Delete 删除评价
func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	return r.orm.WithContext(ctx).Delete(&model.Review{}, id).Error
}

// List 全部评价
func (r *ReviewRepository) List(ctx context.Context) ([]*model.Review, error) {
	return r.find(ctx, "", nil)
}

// ByGameID 某游戏的评价
func (r *ReviewRepository) ByGameID(ctx context.Context, gameID uint) ([]*model.Review, error) {
	return r.find(ctx, "game_id = ?", gameID)
}

// ByUserID 某用户的评价
func (r *ReviewRepository) ByUserID(ctx context.Context, userID uint) ([]*model.Review, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *ReviewRepository) find(ctx context.Context, query string, arg interface{}) ([]*model.Review, error) {
	q := r.orm.WithContext(ctx).Order("created_at ASC, id ASC")
	if query != "" {
		q = q.Where(query, arg)
	}
	var reviews []*model.Review
	err := q.Find(&reviews).Error
	return reviews, err
}
