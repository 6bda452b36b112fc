package service

import (
	"context"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
)

// ReviewInput 创建评价参数
type ReviewInput struct {
	Rating  int
	Comment string
}

// ReviewUpdate 部分更新，nil 字段保持不变
type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

// ReviewService 评价业务
type ReviewService struct {
	repos *repository.Repositories
}

// NewReviewService 创建评价服务
func NewReviewService(repos *repository.Repositories) *ReviewService {
	return &ReviewService{repos: repos}
}

// CreateReview 用户对游戏发表评价
// 用户或游戏不存在属于参数错误
func (s *ReviewService) CreateReview(ctx context.Context, in ReviewInput, userID, gameID uint) (*model.Review, error) {
	ok, err := s.repos.Users.Exists(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "check user")
	}
	if !ok {
		return nil, apperr.InvalidArgument("user %d does not exist", userID)
	}
	ok, err = s.repos.Games.Exists(ctx, gameID)
	if err != nil {
		return nil, apperr.Internal(err, "check game")
	}
	if !ok {
		return nil, apperr.InvalidArgument("game %d does not exist", gameID)
	}

	review := &model.Review{
		UserID:  userID,
		GameID:  gameID,
		Rating:  in.Rating,
		Comment: in.Comment,
		Content: in.Comment,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Reviews.Create(ctx, review); err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	return review, nil
}

// UpdateReview 部分更新评分与内容
func (s *ReviewService) UpdateReview(ctx context.Context, id uint, in ReviewUpdate) (*model.Review, error) {
	review, err := s.repos.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if in.Comment != nil {
		review.Comment = *in.Comment
		review.Content = *in.Comment
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Reviews.Update(ctx, review); err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	return review, nil
}

// GetReview 根据ID获取评价
func (s *ReviewService) GetReview(ctx context.Context, id uint) (*model.Review, error) {
	review, err := s.repos.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "review")
	}
	return review, nil
}

// ListReviews 全部评价
func (s *ReviewService) ListReviews(ctx context.Context) ([]*model.Review, error) {
	reviews, err := s.repos.Reviews.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list reviews")
	}
	return reviews, nil
}

// ReviewsByGame 某游戏的评价
func (s *ReviewService) ReviewsByGame(ctx context.Context, gameID uint) ([]*model.Review, error) {
	reviews, err := s.repos.Reviews.ByGameID(ctx, gameID)
	if err != nil {
		return nil, apperr.Internal(err, "list reviews")
	}
	return reviews, nil
}

// ReviewsByUser 某用户的评价
func (s *ReviewService) ReviewsByUser(ctx context.Context, userID uint) ([]*model.Review, error) {
	reviews, err := s.repos.Reviews.ByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "list reviews")
	}
	return reviews, nil
}

// DeleteReview 删除评价
func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	if _, err := s.repos.Reviews.GetByID(ctx, id); err != nil {
		return apperr.FromDB(err, "review")
	}
	if err := s.repos.Reviews.Delete(ctx, id); err != nil {
		return apperr.Internal(err, "delete review")
	}
	return nil
}
