package repository

import (
	"context"
	"errors"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// FriendRepository 好友关系仓储
type FriendRepository struct {
	orm *gorm.DB
}

// NewFriendRepository 创建FriendRepository实例
func NewFriendRepository(orm *gorm.DB) *FriendRepository {
	return &FriendRepository{orm: orm}
}

// Create 创建好友申请
func (r *FriendRepository) Create(ctx context.Context, rel *model.FriendRelationship) error {
	return r.orm.WithContext(ctx).Omit("User", "Friend").Create(rel).Error
}

// GetByID 获取好友关系（含双方用户）
func (r *FriendRepository) GetByID(ctx context.Context, id uint) (*model.FriendRelationship, error) {
	var rel model.FriendRelationship
	if err := r.orm.WithContext(ctx).Preload("User").Preload("Friend").First(&rel, id).Error; err != nil {
		return nil, err
	}
	return &rel, nil
}

// FindBetween 查找两个用户之间任一方向的关系，不存在时返回 nil
func (r *FriendRepository) FindBetween(ctx context.Context, a, b uint) (*model.FriendRelationship, error) {
	var rel model.FriendRelationship
	err := r.orm.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Order("id DESC").
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// UpdateStatus 更新关系状态及申请方向
func (r *FriendRepository) UpdateStatus(ctx context.Context, rel *model.FriendRelationship) error {
	return r.orm.WithContext(ctx).Model(rel).
		Select("user_id", "friend_id", "status").
		Updates(rel).Error
}

// Delete 删除好友关系
func (r *FriendRepository) Delete(ctx context.Context, id uint) error {
	return r.orm.WithContext(ctx).Delete(&model.FriendRelationship{}, id).Error
}

// ListAccepted 用户已建立的好友关系
func (r *FriendRepository) ListAccepted(ctx context.Context, userID uint) ([]*model.FriendRelationship, error) {
	var list []*model.FriendRelationship
	err := r.orm.WithContext(ctx).Preload("User").Preload("Friend").
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, model.FriendAccepted).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// ListPending 发给用户且尚未处理的申请
func (r *FriendRepository) ListPending(ctx context.Context, userID uint) ([]*model.FriendRelationship, error) {
	var list []*model.FriendRelationship
	err := r.orm.WithContext(ctx).Preload("User").Preload("Friend").
		Where("friend_id = ? AND status = ?", userID, model.FriendPending).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
