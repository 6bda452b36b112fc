package model

import "time"

// FriendStatus 好友关系状态
type FriendStatus string

const (
	FriendPending  FriendStatus = "PENDING"
	FriendAccepted FriendStatus = "ACCEPTED"
	FriendRejected FriendStatus = "REJECTED"
)

// FriendRelationship 好友关系
// UserID 为发起方，FriendID 为接收方

type FriendRelationship struct {
	ID        uint         `gorm:"primaryKey"`
	UserID    uint         `gorm:"not null;index;comment:发起方ID"`
	User      *User        `gorm:"foreignKey:UserID"`
	FriendID  uint         `gorm:"not null;index;comment:接收方ID"`
	Friend    *User        `gorm:"foreignKey:FriendID"`
	Status    FriendStatus `gorm:"type:varchar(16);not null;default:'PENDING';comment:关系状态"`
	CreatedAt time.Time    `gorm:"comment:创建时间"`
	UpdatedAt time.Time    `gorm:"comment:更新时间"`
}

func (FriendRelationship) TableName() string { return "friend_relationship" }

// Counterpart 返回关系中另一方的用户ID
func (f *FriendRelationship) Counterpart(userID uint) uint {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
