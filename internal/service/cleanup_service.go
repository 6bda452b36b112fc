package service

import (
	"context"
	"time"

	"gamehub/pkg/logger"
	"gamehub/pkg/metrics"

	"go.uber.org/zap"
)

// CleanupService 定期清理过期的聊天消息与通知
type CleanupService struct {
	chat          *ChatService
	notifications *NotificationService
	retention     time.Duration
}

// NewCleanupService 创建清理服务
func NewCleanupService(chat *ChatService, notifications *NotificationService, retention time.Duration) *CleanupService {
	return &CleanupService{chat: chat, notifications: notifications, retention: retention}
}

// Run 删除早于保留期限的数据，供定时任务调用
func (s *CleanupService) Run(ctx context.Context) error {
	cutoff := now().Add(-s.retention)

	messages, err := s.chat.DeleteOldMessages(ctx, cutoff)
	if err != nil {
		return err
	}
	metrics.RecordCleanup("chat_message", messages)

	notifications, err := s.notifications.DeleteOldNotifications(ctx, cutoff)
	if err != nil {
		return err
	}
	metrics.RecordCleanup("notification", notifications)

	logger.Info("过期数据清理完成",
		zap.Time("cutoff", cutoff),
		zap.Int64("messages", messages),
		zap.Int64("notifications", notifications),
	)
	return nil
}
