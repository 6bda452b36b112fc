package repository

import (
	"context"
	"time"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// NotificationRepository 通知仓储
type NotificationRepository struct {
	orm *gorm.DB
}

// NewNotificationRepository 创建NotificationRepository实例
func NewNotificationRepository(orm *gorm.DB) *NotificationRepository {
	return &NotificationRepository{orm: orm}
}

// Create 创建通知
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.orm.WithContext(ctx).Create(n).Error
}

// GetByID 根据ID获取通知
func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*model.Notification, error) {
	var n model.Notification
	if err := r.orm.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAsRead 标记为已读，返回实际更新的条数
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uint) (int64, error) {
	res := r.orm.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkAllAsRead 标记用户全部通知为已读
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	res := r.orm.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// ListForUser 用户的通知，最新在前
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint) ([]*model.Notification, error) {
	var list []*model.Notification
	err := r.orm.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// CountUnread 未读通知数量
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.orm.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// DeleteBefore 删除早于 cutoff 的通知，返回删除条数
func (r *NotificationRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.orm.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}
