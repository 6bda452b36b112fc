package service

import (
	"context"

	"gamehub/config"
	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/redis"
)

// RecommendationService 基于已购游戏类型的推荐
type RecommendationService struct {
	repos *repository.Repositories
	cfg   config.RecommendationConfig
}

// NewRecommendationService 创建推荐服务
func NewRecommendationService(repos *repository.Repositories, cfg config.RecommendationConfig) *RecommendationService {
	return &RecommendationService{repos: repos, cfg: cfg}
}

// GetRecommendationsForUser 按类型名称顺序拼接各类型下未购买的游戏
// 同一游戏属于多个已购类型时默认重复出现，开启 dedup 后只保留第一次出现
func (s *RecommendationService) GetRecommendationsForUser(ctx context.Context, userID uint) ([]*model.Game, error) {
	ids, hit, err := redis.GetCachedRecommendations(userID)
	ignoreCacheErr("get recommendations", err)
	if hit {
		// 缓存中的游戏被删除时重新计算
		if games, err := s.repos.Games.ListByIDs(ctx, ids); err == nil && len(games) == len(ids) {
			return games, nil
		}
	}

	genres, err := s.repos.Games.OwnedGenres(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "load owned genres")
	}

	games := make([]*model.Game, 0)
	seen := make(map[uint]struct{})
	for _, genre := range genres {
		candidates, err := s.repos.Games.ByGenreNotOwned(ctx, genre, userID)
		if err != nil {
			return nil, apperr.Internal(err, "load games for genre %s", genre)
		}
		for _, g := range candidates {
			if s.cfg.Dedup {
				if _, dup := seen[g.ID]; dup {
					continue
				}
				seen[g.ID] = struct{}{}
			}
			games = append(games, g)
		}
	}

	if s.cfg.CacheTTL > 0 {
		ids := make([]uint, len(games))
		for i, g := range games {
			ids[i] = g.ID
		}
		ignoreCacheErr("cache recommendations", redis.CacheRecommendations(userID, ids, s.cfg.CacheTTL))
	}
	return games, nil
}
