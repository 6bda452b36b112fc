package repository

import (
	"context"
	"time"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// MessageRepository 聊天消息仓储
type MessageRepository struct {
	orm *gorm.DB
}

// NewMessageRepository 创建MessageRepository实例
func NewMessageRepository(orm *gorm.DB) *MessageRepository {
	return &MessageRepository{orm: orm}
}

// Create 创建消息
func (r *MessageRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	return r.orm.WithContext(ctx).Create(message).Error
}

// Between 两个用户之间的消息（双向），按时间正序
func (r *MessageRepository) Between(ctx context.Context, userID, otherID uint) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.orm.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkConversationAsRead 标记对方发来的消息为已读
func (r *MessageRepository) MarkConversationAsRead(ctx context.Context, userID, otherID uint) error {
	return r.orm.WithContext(ctx).Model(&model.ChatMessage{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", userID, otherID, false).
		Update("is_read", true).Error
}

// DeleteBefore 删除早于 cutoff 的消息，返回删除条数
func (r *MessageRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.orm.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.ChatMessage{})
	return res.RowsAffected, res.Error
}
