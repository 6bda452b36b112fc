package service

import (
	"gamehub/pkg/apperr"
	"gamehub/pkg/logger"
	"gamehub/pkg/websocket"

	"go.uber.org/zap"
)

// Dispatcher 处理 WebSocket 上行消息
type Dispatcher struct {
	chat          *ChatService
	notifications *NotificationService
	pusher        Pusher
}

// NewDispatcher 创建上行消息分发器
func NewDispatcher(chat *ChatService, notifications *NotificationService, pusher Pusher) *Dispatcher {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &Dispatcher{chat: chat, notifications: notifications, pusher: pusher}
}

// wsError 推送给发送方的错误事件
type wsError struct {
	Request string `json:"request"`
	Message string `json:"message"`
}

// Dispatch 实现 websocket.Dispatcher
func (d *Dispatcher) Dispatch(userID uint, msg websocket.InboundMessage) {
	ctx, cancel := backgroundCtx()
	defer cancel()

	var err error
	switch msg.Type {
	case "chat":
		_, err = d.chat.Save(ctx, userID, msg.To, msg.Content)
	case "ack_read":
		err = d.notifications.MarkAsRead(ctx, userID, msg.NotificationID)
	default:
		err = apperr.InvalidArgument("unknown message type %q", msg.Type)
	}
	if err == nil {
		return
	}

	logger.Warn("处理WebSocket消息失败",
		zap.Uint("user_id", userID),
		zap.String("type", msg.Type),
		zap.Error(err),
	)
	message := err.Error()
	if apperr.KindOf(err) == apperr.KindInternal {
		message = "internal server error"
	}
	d.pusher.Push(userID, websocket.EventError, wsError{Request: msg.Type, Message: message})
}
