package service

import (
	"context"
	"errors"
	"time"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/redis"
	"gamehub/pkg/response"
	"gamehub/pkg/websocket"

	"gorm.io/gorm"
)

// NotificationService 通知业务
// 持久化后同步维护 Redis 未读计数并通过 WebSocket 推送
type NotificationService struct {
	repos  *repository.Repositories
	pusher Pusher
}

// NewNotificationService 创建通知服务，pusher 可为 nil
func NewNotificationService(repos *repository.Repositories, pusher Pusher) *NotificationService {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &NotificationService{repos: repos, pusher: pusher}
}

// Save 保存通知，时间戳在此写入
func (s *NotificationService) Save(ctx context.Context, n *model.Notification) error {
	n.Timestamp = now()
	if n.Type == "" {
		n.Type = model.NotificationGeneric
	}
	if err := s.repos.Notifications.Create(ctx, n); err != nil {
		return apperr.FromDB(err, "notification")
	}
	// 计数缺失时不凭空创建，由 UnreadCount 回源
	if cached, err := redis.GetUnreadCount(n.UserID); err == nil && cached >= 0 {
		ignoreCacheErr("increment unread", redis.IncrementUnreadCount(n.UserID))
	}
	s.pusher.Push(n.UserID, websocket.EventNotification, response.FilterNotifications([]*model.Notification{n})[0])
	return nil
}

// Notify 便捷方法
func (s *NotificationService) Notify(ctx context.Context, userID uint, typ model.NotificationType, message string, senderID, eventID *uint) error {
	return s.Save(ctx, &model.Notification{
		UserID:   userID,
		Type:     typ,
		Message:  message,
		SenderID: senderID,
		EventID:  eventID,
	})
}

// MarkAsRead 标记已读，通知不存在或不属于该用户时不做任何事
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uint) error {
	n, err := s.repos.Notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Internal(err, "load notification")
	}
	if n.UserID != userID {
		return nil
	}
	rows, err := s.repos.Notifications.MarkAsRead(ctx, id)
	if err != nil {
		return apperr.Internal(err, "mark notification read")
	}
	if rows > 0 {
		ignoreCacheErr("decrement unread", redis.DecrementUnreadCount(userID))
	}
	return nil
}

// MarkAllAsRead 标记用户全部通知为已读
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	if _, err := s.repos.Notifications.MarkAllAsRead(ctx, userID); err != nil {
		return apperr.Internal(err, "mark notifications read")
	}
	ignoreCacheErr("reset unread", redis.ResetUnreadCount(userID))
	return nil
}

// ListForUser 用户的通知列表
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]*model.Notification, error) {
	list, err := s.repos.Notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "list notifications")
	}
	return list, nil
}

// UnreadCount 未读数量，优先读 Redis，缺失时回源数据库并回填
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	cached, err := redis.GetUnreadCount(userID)
	ignoreCacheErr("get unread", err)
	if err == nil && cached >= 0 {
		return cached, nil
	}

	count, err := s.repos.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperr.Internal(err, "count unread notifications")
	}
	ignoreCacheErr("set unread", redis.SetUnreadCount(userID, count))
	return count, nil
}

// DeleteOldNotifications 删除早于 cutoff 的通知
func (s *NotificationService) DeleteOldNotifications(ctx context.Context, cutoff time.Time) (int64, error) {
	rows, err := s.repos.Notifications.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, apperr.Internal(err, "delete old notifications")
	}
	return rows, nil
}
