package model

import "time"

// ChatMessage 私聊消息
// Timestamp 在保存时由服务层写入

type ChatMessage struct {
	ID         uint      `gorm:"primaryKey"`
	SenderID   uint      `gorm:"not null;index;comment:发送者ID"`
	ReceiverID uint      `gorm:"not null;index;comment:接收者ID"`
	Content    string    `gorm:"type:text;not null;comment:消息内容"`
	IsRead     bool      `gorm:"default:false;comment:是否已读"`
	Timestamp  time.Time `gorm:"column:created_at;index;comment:发送时间"`
}

func (ChatMessage) TableName() string { return "chat_message" }
