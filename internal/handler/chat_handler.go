package handler

import (
	"gamehub/internal/service"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// ChatHandler 私聊接口（WebSocket 之外的 HTTP 入口）
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler 创建私聊接口
func NewChatHandler(s *service.ChatService) *ChatHandler {
	return &ChatHandler{service: s}
}

// Send 发送消息
func (h *ChatHandler) Send(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		ReceiverID uint   `json:"receiver_id" binding:"required"`
		Content    string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	msg, err := h.service.Save(c.Request.Context(), uid, req.ReceiverID, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "发送成功", response.FilterMessageInfo(msg))
}

// History 与某用户的聊天记录，对方发来的消息标记为已读
func (h *ChatHandler) History(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	messages, err := h.service.MessagesBetween(c.Request.Context(), uid, otherID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterMessages(messages))
}
