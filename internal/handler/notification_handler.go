package handler

import (
	"gamehub/internal/service"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 通知接口
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler 创建通知接口
func NewNotificationHandler(s *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// List 当前用户的通知，最新在前
func (h *NotificationHandler) List(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.service.ListForUser(c.Request.Context(), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterNotifications(list))
}

// UnreadCount 未读数量
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// MarkAsRead 标记单条已读
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), uid, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已读", nil)
}

// MarkAllAsRead 全部标记已读
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.MarkAllAsRead(c.Request.Context(), uid); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "全部已读", nil)
}
