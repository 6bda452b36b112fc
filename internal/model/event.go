package model

import "time"

// Event 活动
// 参与者与用户为多对多关系（event_participant），不拥有用户

type Event struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null;comment:活动名称"`
	Description  string    `gorm:"type:text;comment:活动描述"`
	StartDate    time.Time `gorm:"not null;comment:开始时间"`
	EndDate      time.Time `gorm:"not null;comment:结束时间"`
	Participants []User    `gorm:"many2many:event_participant;"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (Event) TableName() string { return "event" }
