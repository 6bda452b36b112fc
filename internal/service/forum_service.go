package service

import (
	"context"
	"fmt"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/db"
	"gamehub/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostInput 创建/更新帖子参数
type PostInput struct {
	Title    string
	Content  string
	Category string
}

// ForumService 论坛业务
type ForumService struct {
	orm           *gorm.DB
	repos         *repository.Repositories
	notifications *NotificationService
}

// NewForumService 创建论坛服务
func NewForumService(orm *gorm.DB, repos *repository.Repositories, notifications *NotificationService) *ForumService {
	return &ForumService{orm: orm, repos: repos, notifications: notifications}
}

// CreatePost 发帖，作者不存在时返回 NotFound
func (s *ForumService) CreatePost(ctx context.Context, in PostInput, userID uint) (*model.ForumPost, error) {
	author, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	if blank(in.Title) {
		return nil, apperr.Validation(apperr.FieldError{Field: "title", Message: "must not be blank"})
	}
	post := &model.ForumPost{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		AuthorID: author.ID,
	}
	if err := s.repos.Forum.CreatePost(ctx, post); err != nil {
		return nil, apperr.FromDB(err, "post")
	}
	post.Author = author
	return post, nil
}

// UpdatePost 只替换标题与内容
func (s *ForumService) UpdatePost(ctx context.Context, id uint, in PostInput, userID uint) (*model.ForumPost, error) {
	post, err := s.repos.Forum.GetPost(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "post")
	}
	if blank(in.Title) {
		return nil, apperr.Validation(apperr.FieldError{Field: "title", Message: "must not be blank"})
	}
	post.Title = in.Title
	post.Content = in.Content
	if err := s.repos.Forum.UpdatePost(ctx, post); err != nil {
		return nil, apperr.FromDB(err, "post")
	}
	logger.Debug("帖子已更新", zap.Uint("post_id", id), zap.Uint("editor_id", userID))
	return post, nil
}

// GetPost 获取帖子
func (s *ForumService) GetPost(ctx context.Context, id uint) (*model.ForumPost, error) {
	post, err := s.repos.Forum.GetPost(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "post")
	}
	return post, nil
}

// ListPosts 帖子列表，可按分类过滤
func (s *ForumService) ListPosts(ctx context.Context, category string) ([]*model.ForumPost, error) {
	posts, err := s.repos.Forum.ListPosts(ctx, category)
	if err != nil {
		return nil, apperr.Internal(err, "list posts")
	}
	return posts, nil
}

// DeletePost 删除帖子及其评论、点赞
func (s *ForumService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.repos.Forum.GetPost(ctx, id); err != nil {
		return apperr.FromDB(err, "post")
	}
	err := db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		return s.repos.WithTx(tx).Forum.DeletePost(ctx, id)
	})
	if err != nil {
		return apperr.FromDB(err, "post")
	}
	return nil
}

// LikePost 点赞/取消点赞，返回最新帖子与当前是否已点赞
func (s *ForumService) LikePost(ctx context.Context, postID, userID uint) (*model.ForumPost, bool, error) {
	var (
		post  *model.ForumPost
		liked bool
	)
	err := db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		ok, err := repos.Users.Exists(ctx, userID)
		if err := mustExist(ok, err, "user"); err != nil {
			return err
		}
		if _, err := repos.Forum.GetPost(ctx, postID); err != nil {
			return apperr.FromDB(err, "post")
		}

		has, err := repos.Forum.HasLiked(ctx, postID, userID)
		if err != nil {
			return err
		}
		if has {
			err = repos.Forum.RemoveLike(ctx, postID, userID)
		} else {
			err = repos.Forum.AddLike(ctx, postID, userID)
		}
		if err != nil {
			return err
		}
		liked = !has

		post, err = repos.Forum.GetPost(ctx, postID)
		return err
	})
	if err != nil {
		return nil, false, apperr.FromDB(err, "post")
	}
	return post, liked, nil
}

// CommentOnPost 发表评论，并通知帖子作者（作者自己评论除外）
func (s *ForumService) CommentOnPost(ctx context.Context, postID, userID uint, content string) (*model.Comment, error) {
	post, err := s.repos.Forum.GetPost(ctx, postID)
	if err != nil {
		return nil, apperr.FromDB(err, "post")
	}
	author, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	if blank(content) {
		return nil, apperr.Validation(apperr.FieldError{Field: "content", Message: "must not be blank"})
	}

	comment := &model.Comment{Content: content, AuthorID: userID, PostID: postID}
	if err := s.repos.Forum.CreateComment(ctx, comment); err != nil {
		return nil, apperr.FromDB(err, "comment")
	}
	comment.Author = author

	if post.AuthorID != userID {
		msg := fmt.Sprintf("%s commented on your post %q", author.Username, post.Title)
		if err := s.notifications.Notify(ctx, post.AuthorID, model.NotificationPostComment, msg, &author.ID, nil); err != nil {
			logger.Warn("评论通知发送失败", zap.Uint("post_id", postID), zap.Error(err))
		}
	}
	return comment, nil
}

// GetCommentsByPostID 帖子下的评论
func (s *ForumService) GetCommentsByPostID(ctx context.Context, postID uint) ([]*model.Comment, error) {
	if _, err := s.repos.Forum.GetPost(ctx, postID); err != nil {
		return nil, apperr.FromDB(err, "post")
	}
	comments, err := s.repos.Forum.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, apperr.Internal(err, "list comments")
	}
	return comments, nil
}

// GetComment 获取评论，并校验其属于指定帖子
func (s *ForumService) GetComment(ctx context.Context, postID, commentID uint) (*model.Comment, error) {
	comment, err := s.repos.Forum.GetComment(ctx, commentID)
	if err != nil {
		return nil, apperr.FromDB(err, "comment")
	}
	if comment.PostID != postID {
		return nil, apperr.InvalidArgument("comment does not belong to post")
	}
	return comment, nil
}

// DeleteComment 删除帖子下的评论
func (s *ForumService) DeleteComment(ctx context.Context, postID, commentID uint) error {
	if _, err := s.GetComment(ctx, postID, commentID); err != nil {
		return err
	}
	if err := s.repos.Forum.DeleteComment(ctx, commentID); err != nil {
		return apperr.Internal(err, "delete comment")
	}
	return nil
}
