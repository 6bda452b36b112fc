package handler

import (
	"context"

	"gamehub/internal/model"
	"gamehub/internal/service"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友接口
type FriendHandler struct {
	service *service.FriendService
}

// NewFriendHandler 创建好友接口
func NewFriendHandler(s *service.FriendService) *FriendHandler {
	return &FriendHandler{service: s}
}

// SendRequest 发送好友申请
func (h *FriendHandler) SendRequest(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		FriendID uint `json:"friend_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	rel, err := h.service.SendRequest(c.Request.Context(), uid, req.FriendID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "申请已发送", response.FilterFriendRequest(rel))
}

// List 好友列表
func (h *FriendHandler) List(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	friends, err := h.service.ListFriends(c.Request.Context(), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.Summaries(friends))
}

// Pending 待处理的好友申请
func (h *FriendHandler) Pending(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.service.ListPending(c.Request.Context(), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterFriendRequests(list))
}

// Accept 同意申请
func (h *FriendHandler) Accept(c *gin.Context) {
	h.respond(c, h.service.Accept, "已同意")
}

// Reject 拒绝申请
func (h *FriendHandler) Reject(c *gin.Context) {
	h.respond(c, h.service.Reject, "已拒绝")
}

func (h *FriendHandler) respond(c *gin.Context, act func(ctx context.Context, id, actingUserID uint) (*model.FriendRelationship, error), message string) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	rel, err := act(c.Request.Context(), id, uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, message, response.FilterFriendRequest(rel))
}

// Remove 删除好友关系
func (h *FriendHandler) Remove(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id, uid); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已删除", nil)
}
