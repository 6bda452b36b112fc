package repository

import (
	"context"

	"gamehub/internal/model"

	"gorm.io/gorm"
)

// EventRepository 活动数据仓储
type EventRepository struct {
	orm *gorm.DB
}

// NewEventRepository 创建EventRepository实例
func NewEventRepository(orm *gorm.DB) *EventRepository {
	return &EventRepository{orm: orm}
}

// Create 创建活动
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.orm.WithContext(ctx).Omit("Participants").Create(event).Error
}

// GetByID 获取活动（含参与者）
func (r *EventRepository) GetByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.orm.WithContext(ctx).Preload("Participants").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List 全部活动，按开始时间排序
func (r *EventRepository) List(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	err := r.orm.WithContext(ctx).Preload("Participants").
		Order("start_date ASC, id ASC").
		Find(&events).Error
	return events, err
}

// Update 更新活动基本信息
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.orm.WithContext(ctx).Model(event).
		Select("name", "description", "start_date", "end_date").
		Updates(event).Error
}

// Delete 删除活动及参与关系，必须在事务中调用
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	tx := r.orm.WithContext(ctx)
	if err := tx.Exec("DELETE FROM event_participant WHERE event_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Event{}, id).Error
}

// AddParticipant 添加参与者，已存在时不重复写入
func (r *EventRepository) AddParticipant(ctx context.Context, event *model.Event, user *model.User) error {
	return r.orm.WithContext(ctx).Model(event).Association("Participants").Append(user)
}

// RemoveParticipant 移除参与者，不存在时无影响
func (r *EventRepository) RemoveParticipant(ctx context.Context, event *model.Event, user *model.User) error {
	return r.orm.WithContext(ctx).Model(event).Association("Participants").Delete(user)
}

// Participants 活动的参与者
func (r *EventRepository) Participants(ctx context.Context, event *model.Event) ([]*model.User, error) {
	var users []*model.User
	err := r.orm.WithContext(ctx).Model(event).Order("id ASC").Association("Participants").Find(&users)
	return users, err
}
