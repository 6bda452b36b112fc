package service

import (
	"context"
	"time"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/logger"
	"gamehub/pkg/response"
	"gamehub/pkg/websocket"

	"go.uber.org/zap"
)

// ChatService 私聊消息业务
type ChatService struct {
	repos  *repository.Repositories
	pusher Pusher
}

// NewChatService 创建聊天服务，pusher 可为 nil
func NewChatService(repos *repository.Repositories, pusher Pusher) *ChatService {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &ChatService{repos: repos, pusher: pusher}
}

// Save 发送消息：接收者必须存在且不能是自己，时间戳在此写入
func (s *ChatService) Save(ctx context.Context, senderID, receiverID uint, content string) (*model.ChatMessage, error) {
	if senderID == receiverID {
		return nil, apperr.InvalidArgument("cannot send a message to yourself")
	}
	if blank(content) {
		return nil, apperr.Validation(apperr.FieldError{Field: "content", Message: "must not be blank"})
	}
	ok, err := s.repos.Users.Exists(ctx, receiverID)
	if err := mustExist(ok, err, "receiver"); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  now(),
	}
	if err := s.repos.Messages.Create(ctx, msg); err != nil {
		return nil, apperr.FromDB(err, "message")
	}

	s.pusher.Push(receiverID, websocket.EventChat, response.FilterMessageInfo(msg))
	logger.Debug("私聊消息已发送",
		zap.Uint("message_id", msg.ID),
		zap.Uint("sender_id", senderID),
		zap.Uint("receiver_id", receiverID),
	)
	return msg, nil
}

// MessagesBetween 双方往来消息，按时间正序；对方发来的消息随之标记为已读
func (s *ChatService) MessagesBetween(ctx context.Context, userID, otherID uint) ([]*model.ChatMessage, error) {
	messages, err := s.repos.Messages.Between(ctx, userID, otherID)
	if err != nil {
		return nil, apperr.Internal(err, "list messages")
	}
	if err := s.repos.Messages.MarkConversationAsRead(ctx, userID, otherID); err != nil {
		logger.Warn("标记会话已读失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return messages, nil
}

// DeleteOldMessages 删除早于 cutoff 的消息
func (s *ChatService) DeleteOldMessages(ctx context.Context, cutoff time.Time) (int64, error) {
	rows, err := s.repos.Messages.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, apperr.Internal(err, "delete old messages")
	}
	return rows, nil
}
