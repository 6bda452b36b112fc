package model

import "time"

// Purchase 购买记录
// Amount 为购买时刻的游戏价格快照；(user_id, game_id) 唯一

type Purchase struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_purchase_user_game;comment:用户ID"`
	GameID       uint      `gorm:"not null;uniqueIndex:idx_purchase_user_game;index;comment:游戏ID"`
	Game         *Game     `gorm:"foreignKey:GameID"`
	Amount       float64   `gorm:"not null;default:0;index;comment:购买金额"`
	PurchaseDate time.Time `gorm:"not null;index;comment:购买时间"`
}

func (Purchase) TableName() string { return "purchase" }
