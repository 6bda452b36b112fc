package service

import (
	"context"
	"errors"
	"time"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/db"
	"gamehub/pkg/logger"
	"gamehub/pkg/metrics"
	"gamehub/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errAlreadyOwned = apperr.Conflict("user already owns this game")

// PurchaseService 购买业务
type PurchaseService struct {
	orm   *gorm.DB
	repos *repository.Repositories
}

// NewPurchaseService 创建购买服务
func NewPurchaseService(orm *gorm.DB, repos *repository.Repositories) *PurchaseService {
	return &PurchaseService{orm: orm, repos: repos}
}

// PurchaseGame 购买游戏，金额取当前价格（免费游戏为0）
// 事务内先扫描已购记录，(user_id, game_id) 唯一索引兜底并发重复购买
func (s *PurchaseService) PurchaseGame(ctx context.Context, userID, gameID uint) (*model.Purchase, error) {
	var purchase *model.Purchase
	err := db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		ok, err := repos.Users.Exists(ctx, userID)
		if err := mustExist(ok, err, "user"); err != nil {
			return err
		}
		game, err := repos.Games.GetByID(ctx, gameID)
		if err != nil {
			return apperr.FromDB(err, "game")
		}

		owned, err := repos.Purchases.ByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, p := range owned {
			if p.GameID == gameID {
				return errAlreadyOwned
			}
		}

		amount := 0.0
		if game.Price != nil {
			amount = *game.Price
		}
		purchase = &model.Purchase{
			UserID:       userID,
			GameID:       gameID,
			Amount:       amount,
			PurchaseDate: now(),
		}
		if err := repos.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		purchase.Game = game
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errAlreadyOwned
	}
	if err != nil {
		return nil, apperr.FromDB(err, "purchase")
	}

	metrics.RecordPurchase()
	ignoreCacheErr("invalidate recommendations", redis.InvalidateRecommendations(userID))
	logger.Info("游戏购买成功",
		zap.Uint("user_id", userID),
		zap.Uint("game_id", gameID),
		zap.Float64("amount", purchase.Amount),
	)
	return purchase, nil
}

// GetPurchases 按起始日期与金额区间查询购买记录
// 金额区间左闭右开：min <= amount < max
func (s *PurchaseService) GetPurchases(ctx context.Context, userID uint, fromDate time.Time, minAmount, maxAmount *float64) ([]*model.Purchase, error) {
	list, err := s.repos.Purchases.Find(ctx, repository.PurchaseFilter{
		UserID:    userID,
		FromDate:  fromDate,
		MinAmount: minAmount,
		MaxAmount: maxAmount,
	})
	if err != nil {
		return nil, apperr.Internal(err, "list purchases")
	}
	return list, nil
}

// CheckOwnership 用户是否拥有游戏
func (s *PurchaseService) CheckOwnership(ctx context.Context, userID, gameID uint) (bool, error) {
	owned, err := s.repos.Purchases.Exists(ctx, userID, gameID)
	if err != nil {
		return false, apperr.Internal(err, "check ownership")
	}
	return owned, nil
}
