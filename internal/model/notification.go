package model

import "time"

// NotificationType 通知类型
type NotificationType string

const (
	NotificationGeneric        NotificationType = "GENERIC"
	NotificationFriendRequest  NotificationType = "FRIEND_REQUEST"
	NotificationFriendAccepted NotificationType = "FRIEND_ACCEPTED"
	NotificationPostComment    NotificationType = "POST_COMMENT"
	NotificationEventUpdated   NotificationType = "EVENT_UPDATED"
	NotificationChatMessage    NotificationType = "CHAT_MESSAGE"
)

// Notification 用户通知

type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"not null;index;comment:接收用户ID"`
	Message   string           `gorm:"type:text;not null;comment:通知内容"`
	Timestamp time.Time        `gorm:"column:created_at;index;comment:通知时间"`
	Read      bool             `gorm:"column:is_read;default:false;comment:是否已读"`
	Type      NotificationType `gorm:"type:varchar(32);comment:通知类型"`
	SenderID  *uint            `gorm:"comment:触发用户ID"`
	EventID   *uint            `gorm:"comment:关联活动ID"`
}

func (Notification) TableName() string { return "notification" }
