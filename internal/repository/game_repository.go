package repository

import (
	"context"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// GameRepository 游戏数据仓储
type GameRepository struct {
	orm *gorm.DB
}

// NewGameRepository 创建GameRepository实例
func NewGameRepository(orm *gorm.DB) *GameRepository {
	return &GameRepository{orm: orm}
}

// Create 创建游戏，类型标签随之写入 game_genre
func (r *GameRepository) Create(ctx context.Context, game *model.Game) error {
	return r.orm.WithContext(ctx).Create(game).Error
}

// GetByID 根据ID获取游戏（含类型）
func (r *GameRepository) GetByID(ctx context.Context, id uint) (*model.Game, error) {
	var g model.Game
	if err := r.orm.WithContext(ctx).Preload("Genres").First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Exists 游戏是否存在
func (r *GameRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.orm.WithContext(ctx).Model(&model.Game{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListByIDs 按给定ID顺序返回游戏，重复ID保留重复项，缺失的ID被跳过
func (r *GameRepository) ListByIDs(ctx context.Context, ids []uint) ([]*model.Game, error) {
	if len(ids) == 0 {
		return []*model.Game{}, nil
	}
	var found []*model.Game
	if err := r.orm.WithContext(ctx).Preload("Genres").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Game, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}
	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			games = append(games, g)
		}
	}
	return games, nil
}

// List 获取全部游戏
func (r *GameRepository) List(ctx context.Context) ([]*model.Game, error) {
	var games []*model.Game
	err := r.orm.WithContext(ctx).Preload("Genres").Order("id ASC").Find(&games).Error
	return games, err
}

// FindByTitle 按标题查找候选游戏
// mysql 默认排序规则不区分大小写，调用方需再做精确比较
func (r *GameRepository) FindByTitle(ctx context.Context, title string) ([]*model.Game, error) {
	var games []*model.Game
	err := r.orm.WithContext(ctx).Where("title = ?", title).Find(&games).Error
	return games, err
}

// Update 覆盖全部可变字段并替换类型，必须在事务中调用
func (r *GameRepository) Update(ctx context.Context, game *model.Game) error {
	tx := r.orm.WithContext(ctx)
	if err := tx.Model(game).
		Select("title", "description", "release_date", "developer", "price").
		Updates(game).Error; err != nil {
		return err
	}
	if err := tx.Where("game_id = ?", game.ID).Delete(&model.GameGenre{}).Error; err != nil {
		return err
	}
	if len(game.Genres) == 0 {
		return nil
	}
	for i := range game.Genres {
		game.Genres[i].GameID = game.ID
	}
	return tx.Create(&game.Genres).Error
}

// OwnedBy 用户购买过的游戏
func (r *GameRepository) OwnedBy(ctx context.Context, userID uint) ([]*model.Game, error) {
	var games []*model.Game
	err := r.orm.WithContext(ctx).
		Preload("Genres").
		Joins("JOIN purchase ON purchase.game_id = game.id").
		Where("purchase.user_id = ?", userID).
		Order("purchase.purchase_date ASC, game.id ASC").
		Find(&games).Error
	return games, err
}

// OwnedGenres 用户已购游戏涵盖的类型（去重，按名称排序）
func (r *GameRepository) OwnedGenres(ctx context.Context, userID uint) ([]model.Genre, error) {
	var genres []model.Genre
	err := r.orm.WithContext(ctx).Model(&model.GameGenre{}).
		Distinct("game_genre.genre").
		Joins("JOIN purchase ON purchase.game_id = game_genre.game_id").
		Where("purchase.user_id = ?", userID).
		Order("game_genre.genre ASC").
		Pluck("game_genre.genre", &genres).Error
	return genres, err
}

// ByGenreNotOwned 某类型下用户尚未购买的游戏
func (r *GameRepository) ByGenreNotOwned(ctx context.Context, genre model.Genre, userID uint) ([]*model.Game, error) {
	tx := r.orm.WithContext(ctx)
	owned := tx.Model(&model.Purchase{}).Select("game_id").Where("user_id = ?", userID)

	var games []*model.Game
	err := tx.Preload("Genres").
		Joins("JOIN game_genre ON game_genre.game_id = game.id").
		Where("game_genre.genre = ?", genre).
		Where("game.id NOT IN (?)", owned).
		Order("game.id ASC").
		Find(&games).Error
	return games, err
}

// Delete 删除游戏及其评价、类型、购买记录，必须在事务中调用
func (r *GameRepository) Delete(ctx context.Context, id uint) error {
	tx := r.orm.WithContext(ctx)
	for _, m := range []interface{}{&model.Review{}, &model.GameGenre{}, &model.Purchase{}} {
		if err := tx.Where("game_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&model.Game{}, id).Error
}
