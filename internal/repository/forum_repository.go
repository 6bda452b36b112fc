package repository

import (
	"context"
	"errors"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// ForumRepository 论坛帖子、评论、点赞仓储
type ForumRepository struct {
	orm *gorm.DB
}

// NewForumRepository 创建ForumRepository实例
func NewForumRepository(orm *gorm.DB) *ForumRepository {
	return &ForumRepository{orm: orm}
}

// CreatePost 创建帖子
func (r *ForumRepository) CreatePost(ctx context.Context, post *model.ForumPost) error {
	return r.orm.WithContext(ctx).Omit("Author").Create(post).Error
}

// GetPost 获取帖子（含作者）
func (r *ForumRepository) GetPost(ctx context.Context, id uint) (*model.ForumPost, error) {
	var post model.ForumPost
	if err := r.orm.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts 帖子列表，category 为空时返回全部，按时间倒序
func (r *ForumRepository) ListPosts(ctx context.Context, category string) ([]*model.ForumPost, error) {
	q := r.orm.WithContext(ctx).Preload("Author").Order("created_at DESC, id DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var posts []*model.ForumPost
	err := q.Find(&posts).Error
	return posts, err
}

// UpdatePost 更新标题与内容
func (r *ForumRepository) UpdatePost(ctx context.Context, post *model.ForumPost) error {
	return r.orm.WithContext(ctx).Model(post).
		Select("title", "content").
		Updates(post).Error
}

// DeletePost 删除帖子及其评论、点赞，必须在事务中调用
func (r *ForumRepository) DeletePost(ctx context.Context, id uint) error {
	tx := r.orm.WithContext(ctx)
	if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.ForumPost{}, id).Error
}

// HasLiked 用户是否已点赞
func (r *ForumRepository) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var like model.PostLike
	err := r.orm.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Take(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// AddLike 添加点赞并增加计数
func (r *ForumRepository) AddLike(ctx context.Context, postID, userID uint) error {
	tx := r.orm.WithContext(ctx)
	if err := tx.Create(&model.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
		return err
	}
	return tx.Model(&model.ForumPost{}).Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
}

// RemoveLike 取消点赞并减少计数
func (r *ForumRepository) RemoveLike(ctx context.Context, postID, userID uint) error {
	tx := r.orm.WithContext(ctx)
	res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
	if res.Error != nil || res.RowsAffected == 0 {
		return res.Error
	}
	return tx.Model(&model.ForumPost{}).Where("id = ? AND likes_count > 0", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
}

// CreateComment 创建评论
func (r *ForumRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return r.orm.WithContext(ctx).Omit("Author").Create(comment).Error
}

// GetComment 获取评论
func (r *ForumRepository) GetComment(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.orm.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// CommentsByPost 帖子下的评论，按时间正序
func (r *ForumRepository) CommentsByPost(ctx context.Context, postID uint) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.orm.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment 删除评论
func (r *ForumRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.orm.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
