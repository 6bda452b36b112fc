package repository

import "gorm.io/gorm"

// Repositories 聚合全部仓储
// 事务内通过 WithTx 整体切换到同一个 *gorm.DB
type Repositories struct {
	Users         *UserRepository
	Games         *GameRepository
	Reviews       *ReviewRepository
	Forum         *ForumRepository
	Events        *EventRepository
	Friends       *FriendRepository
	Messages      *MessageRepository
	Notifications *NotificationRepository
	Purchases     *PurchaseRepository
}

// New 创建全部仓储
func New(orm *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(orm),
		Games:         NewGameRepository(orm),
		Reviews:       NewReviewRepository(orm),
		Forum:         NewForumRepository(orm),
		Events:        NewEventRepository(orm),
		Friends:       NewFriendRepository(orm),
		Messages:      NewMessageRepository(orm),
		Notifications: NewNotificationRepository(orm),
		Purchases:     NewPurchaseRepository(orm),
	}
}

// WithTx 返回绑定到事务的仓储集合
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return New(tx)
}
