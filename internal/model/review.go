package model

import (
	"strings"
	"time"

	"gamehub/pkg/apperr"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review 游戏评价
// Content 为历史字段，保存时与 Comment 保持一致

type Review struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index;comment:评价用户ID"`
	GameID    uint      `gorm:"not null;index;comment:游戏ID"`
	Rating    int       `gorm:"not null;comment:评分(1-5)"`
	Comment   string    `gorm:"type:text;not null;comment:评价内容"`
	Content   string    `gorm:"type:text;comment:历史内容字段"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (Review) TableName() string { return "review" }

// Validate 实体自身约束：评分 1..5，评价内容非空
func (r *Review) Validate() error {
	var fields []apperr.FieldError
	if r.Rating < MinRating || r.Rating > MaxRating {
		fields = append(fields, apperr.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}
	if strings.TrimSpace(r.Comment) == "" {
		fields = append(fields, apperr.FieldError{Field: "comment", Message: "must not be blank"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
