package service

import (
	"context"
	"fmt"
	"time"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/db"
	"gamehub/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventInput 创建活动参数
type EventInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// EventUpdate 部分更新，nil 字段保持不变
type EventUpdate struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// EventService 活动业务
type EventService struct {
	orm           *gorm.DB
	repos         *repository.Repositories
	notifications *NotificationService
}

// NewEventService 创建活动服务
func NewEventService(orm *gorm.DB, repos *repository.Repositories, notifications *NotificationService) *EventService {
	return &EventService{orm: orm, repos: repos, notifications: notifications}
}

func validateEvent(e *model.Event) error {
	var fields []apperr.FieldError
	if blank(e.Name) {
		fields = append(fields, apperr.FieldError{Field: "name", Message: "must not be blank"})
	}
	if e.StartDate.IsZero() {
		fields = append(fields, apperr.FieldError{Field: "startDate", Message: "is required"})
	}
	if e.EndDate.IsZero() {
		fields = append(fields, apperr.FieldError{Field: "endDate", Message: "is required"})
	} else if !e.EndDate.After(e.StartDate) {
		fields = append(fields, apperr.FieldError{Field: "endDate", Message: "must be after start date"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

// CreateEvent 创建活动，结束时间必须在未来
func (s *EventService) CreateEvent(ctx context.Context, in EventInput) (*model.Event, error) {
	event := &model.Event{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if !event.EndDate.After(now()) {
		return nil, apperr.Validation(apperr.FieldError{Field: "endDate", Message: "must be in the future"})
	}
	if err := s.repos.Events.Create(ctx, event); err != nil {
		return nil, apperr.FromDB(err, "event")
	}
	return event, nil
}

// UpdateEvent 部分更新并通知全部参与者
func (s *EventService) UpdateEvent(ctx context.Context, id uint, in EventUpdate) (*model.Event, error) {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "event")
	}
	if in.Name != nil {
		event.Name = *in.Name
	}
	if in.Description != nil {
		event.Description = *in.Description
	}
	if in.StartDate != nil {
		event.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		event.EndDate = *in.EndDate
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if err := s.repos.Events.Update(ctx, event); err != nil {
		return nil, apperr.FromDB(err, "event")
	}

	msg := fmt.Sprintf("Event %q has been updated", event.Name)
	for _, p := range event.Participants {
		if err := s.notifications.Notify(ctx, p.ID, model.NotificationEventUpdated, msg, nil, &event.ID); err != nil {
			logger.Warn("活动更新通知发送失败",
				zap.Uint("event_id", event.ID),
				zap.Uint("user_id", p.ID),
				zap.Error(err),
			)
		}
	}
	return event, nil
}

// GetEvent 获取活动
func (s *EventService) GetEvent(ctx context.Context, id uint) (*model.Event, error) {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "event")
	}
	return event, nil
}

// ListEvents 全部活动
func (s *EventService) ListEvents(ctx context.Context) ([]*model.Event, error) {
	events, err := s.repos.Events.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list events")
	}
	return events, nil
}

// DeleteEvent 删除活动
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if _, err := s.repos.Events.GetByID(ctx, id); err != nil {
		return apperr.FromDB(err, "event")
	}
	err := db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		return s.repos.WithTx(tx).Events.Delete(ctx, id)
	})
	if err != nil {
		return apperr.FromDB(err, "event")
	}
	return nil
}

func (s *EventService) load(ctx context.Context, eventID, userID uint) (*model.Event, *model.User, error) {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, apperr.FromDB(err, "event")
	}
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, apperr.FromDB(err, "user")
	}
	return event, user, nil
}

// AddParticipant 报名，重复报名无副作用
func (s *EventService) AddParticipant(ctx context.Context, eventID, userID uint) (*model.Event, error) {
	event, user, err := s.load(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range event.Participants {
		if p.ID == userID {
			return event, nil
		}
	}
	if err := s.repos.Events.AddParticipant(ctx, event, user); err != nil {
		return nil, apperr.Internal(err, "add participant")
	}
	return event, nil
}

// RemoveParticipant 取消报名，未报名时无副作用
func (s *EventService) RemoveParticipant(ctx context.Context, eventID, userID uint) (*model.Event, error) {
	event, user, err := s.load(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Events.RemoveParticipant(ctx, event, user); err != nil {
		return nil, apperr.Internal(err, "remove participant")
	}
	return event, nil
}

// GetParticipants 活动参与者
func (s *EventService) GetParticipants(ctx context.Context, eventID uint) ([]*model.User, error) {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperr.FromDB(err, "event")
	}
	users, err := s.repos.Events.Participants(ctx, event)
	if err != nil {
		return nil, apperr.Internal(err, "list participants")
	}
	return users, nil
}
