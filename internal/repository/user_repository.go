package repository

import (
	"context"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据仓储
type UserRepository struct {
	orm *gorm.DB
}

// NewUserRepository 创建UserRepository实例
func NewUserRepository(orm *gorm.DB) *UserRepository {
	return &UserRepository{orm: orm}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.orm.WithContext(ctx).Create(user).Error
}

// GetByID 根据ID获取用户
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists 用户是否存在
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.orm.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UsernameTaken 用户名是否已被其他用户占用，excludeID 为 0 时不排除
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.taken(ctx, "username", username, excludeID)
}

// EmailTaken 邮箱是否已被其他用户占用
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *UserRepository) taken(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	q := r.orm.WithContext(ctx).Model(&model.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// Update 保存资料字段（不包含关联）
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.orm.WithContext(ctx).Model(user).
		Select("username", "email", "password_hash", "description", "roles").
		Updates(user).Error
}

// UpdateProfilePicture 更新头像文件名
func (r *UserRepository) UpdateProfilePicture(ctx context.Context, id uint, filename string) error {
	return r.orm.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("profile_picture", filename).Error
}

// List 获取全部用户
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.orm.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

// ListByIDs 批量获取用户
func (r *UserRepository) ListByIDs(ctx context.Context, ids []uint) ([]*model.User, error) {
	var users []*model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.orm.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&users).Error
	return users, err
}

// Delete 删除用户及其全部关联数据，必须在事务中调用
// 用户不存在时不做任何事
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	tx := r.orm.WithContext(ctx)

	// 用户发布的帖子连同其评论、点赞
	postIDs := tx.Model(&model.ForumPost{}).Select("id").Where("author_id = ?", id)
	if err := tx.Where("post_id IN (?)", postIDs).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN (?)", postIDs).Delete(&model.PostLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("author_id = ?", id).Delete(&model.ForumPost{}).Error; err != nil {
		return err
	}

	// 用户给其他帖子的点赞，先回退计数
	likedPosts := tx.Model(&model.PostLike{}).Select("post_id").Where("user_id = ?", id)
	if err := tx.Model(&model.ForumPost{}).
		Where("id IN (?)", likedPosts).
		UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
		return err
	}

	steps := []struct {
		query string
		args  []interface{}
		model interface{}
	}{
		{"user_id = ?", []interface{}{id}, &model.PostLike{}},
		{"author_id = ?", []interface{}{id}, &model.Comment{}},
		{"user_id = ?", []interface{}{id}, &model.Review{}},
		{"user_id = ?", []interface{}{id}, &model.Purchase{}},
		{"user_id = ? OR friend_id = ?", []interface{}{id, id}, &model.FriendRelationship{}},
		{"sender_id = ? OR receiver_id = ?", []interface{}{id, id}, &model.ChatMessage{}},
		{"user_id = ?", []interface{}{id}, &model.Notification{}},
	}
	for _, s := range steps {
		if err := tx.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
			return err
		}
	}

	if err := tx.Model(&model.Notification{}).Where("sender_id = ?", id).Update("sender_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM event_participant WHERE user_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&model.User{}, id).Error
}
