package service

import (
	"context"
	"time"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/db"
	"gamehub/pkg/redis"

	"gorm.io/gorm"
)

// GameInput 创建/更新游戏的参数
type GameInput struct {
	Title       string
	Description string
	Genres      []model.Genre
	ReleaseDate *time.Time
	Developer   string
	Price       *float64
}

// GameService 游戏目录业务
type GameService struct {
	orm   *gorm.DB
	repos *repository.Repositories
}

// NewGameService 创建游戏服务
func NewGameService(orm *gorm.DB, repos *repository.Repositories) *GameService {
	return &GameService{orm: orm, repos: repos}
}

// validate 校验游戏字段，excludeID 为更新时的自身ID
// 标题唯一性区分大小写
func (s *GameService) validate(ctx context.Context, in GameInput, excludeID uint) error {
	var fields []apperr.FieldError
	if blank(in.Title) {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "must not be blank"})
	} else {
		candidates, err := s.repos.Games.FindByTitle(ctx, in.Title)
		if err != nil {
			return apperr.Internal(err, "check title")
		}
		for _, g := range candidates {
			if g.Title == in.Title && g.ID != excludeID {
				fields = append(fields, apperr.FieldError{Field: "title", Message: "a game with this title already exists"})
				break
			}
		}
	}
	if in.ReleaseDate == nil {
		fields = append(fields, apperr.FieldError{Field: "releaseDate", Message: "is required"})
	}
	if blank(in.Developer) {
		fields = append(fields, apperr.FieldError{Field: "developer", Message: "must not be blank"})
	}
	if in.Price != nil && *in.Price <= 0 {
		fields = append(fields, apperr.FieldError{Field: "price", Message: "must be greater than 0"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

func (in GameInput) apply(g *model.Game) {
	g.Title = in.Title
	g.Description = in.Description
	g.ReleaseDate = in.ReleaseDate
	g.Developer = in.Developer
	g.Price = in.Price
	g.SetGenres(in.Genres)
}

// CreateGame 创建游戏
func (s *GameService) CreateGame(ctx context.Context, in GameInput) (*model.Game, error) {
	if err := s.validate(ctx, in, 0); err != nil {
		return nil, err
	}
	game := &model.Game{}
	in.apply(game)
	if err := s.repos.Games.Create(ctx, game); err != nil {
		return nil, apperr.FromDB(err, "game")
	}
	// 新游戏会改变推荐结果
	ignoreCacheErr("invalidate recommendations", redis.InvalidateAllRecommendations())
	return game, nil
}

// UpdateGame 覆盖全部可变字段（包括类型）
func (s *GameService) UpdateGame(ctx context.Context, id uint, in GameInput) (*model.Game, error) {
	game, err := s.repos.Games.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "game")
	}
	if err := s.validate(ctx, in, id); err != nil {
		return nil, err
	}
	in.apply(game)

	err = db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		return s.repos.WithTx(tx).Games.Update(ctx, game)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "game")
	}
	ignoreCacheErr("invalidate recommendations", redis.InvalidateAllRecommendations())
	return game, nil
}

// GetGame 根据ID获取游戏
func (s *GameService) GetGame(ctx context.Context, id uint) (*model.Game, error) {
	game, err := s.repos.Games.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "game")
	}
	return game, nil
}

// ListGames 全部游戏
func (s *GameService) ListGames(ctx context.Context) ([]*model.Game, error) {
	games, err := s.repos.Games.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list games")
	}
	return games, nil
}

// GetGamesByUserID 用户已购买的游戏
func (s *GameService) GetGamesByUserID(ctx context.Context, userID uint) ([]*model.Game, error) {
	ok, err := s.repos.Users.Exists(ctx, userID)
	if err := mustExist(ok, err, "user"); err != nil {
		return nil, err
	}
	games, err := s.repos.Games.OwnedBy(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "list owned games")
	}
	return games, nil
}

// DeleteGame 删除游戏及其评价、购买记录
func (s *GameService) DeleteGame(ctx context.Context, id uint) error {
	ok, err := s.repos.Games.Exists(ctx, id)
	if err := mustExist(ok, err, "game"); err != nil {
		return err
	}
	err = db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		return s.repos.WithTx(tx).Games.Delete(ctx, id)
	})
	if err != nil {
		return apperr.FromDB(err, "game")
	}
	ignoreCacheErr("invalidate recommendations", redis.InvalidateAllRecommendations())
	return nil
}
