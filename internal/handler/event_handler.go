package handler

import (
	"time"

	"gamehub/internal/service"
	"gamehub/pkg/jwt"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// EventHandler 社区活动接口
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler 创建活动接口
func NewEventHandler(s *service.EventService) *EventHandler {
	return &EventHandler{service: s}
}

type eventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// dates 解析可选的起止时间
func (r *eventRequest) dates() (start, end *time.Time, err error) {
	if r.StartDate != nil {
		t, perr := parseDate(*r.StartDate)
		if perr != nil {
			return nil, nil, errInvalidDate("startDate")
		}
		start = &t
	}
	if r.EndDate != nil {
		t, perr := parseDate(*r.EndDate)
		if perr != nil {
			return nil, nil, errInvalidDate("endDate")
		}
		end = &t
	}
	return start, end, nil
}

// Create 创建活动（管理员/社区管理员）
func (h *EventHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	start, end, err := req.dates()
	if err != nil {
		response.FromError(c, err)
		return
	}
	in := service.EventInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if start != nil {
		in.StartDate = *start
	}
	if end != nil {
		in.EndDate = *end
	}
	event, err := h.service.CreateEvent(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "创建成功", response.FilterEventInfo(event))
}

// Update 部分更新活动，并通知参与者
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	start, end, err := req.dates()
	if err != nil {
		response.FromError(c, err)
		return
	}
	event, err := h.service.UpdateEvent(c.Request.Context(), id, service.EventUpdate{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", response.FilterEventInfo(event))
}

// Delete 删除活动
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteEvent(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已删除", nil)
}

// List 活动列表
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterEvents(events))
}

// Get 获取活动
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	event, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterEventInfo(event))
}

// Participants 活动参与者
func (h *EventHandler) Participants(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	users, err := h.service.GetParticipants(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.Summaries(users))
}

// participantIDs 活动ID与用户ID；本人或版主才能修改报名
func participantIDs(c *gin.Context) (eventID, userID uint, ok bool) {
	if eventID, ok = idParam(c, "id"); !ok {
		return
	}
	if userID, ok = idParam(c, "userId"); !ok {
		return
	}
	if !jwt.IsSelfOrHasRole(c, userID, moderators...) {
		response.Forbidden(c, "只能为自己报名")
		return 0, 0, false
	}
	return eventID, userID, true
}

// Join 报名活动
func (h *EventHandler) Join(c *gin.Context) {
	eventID, userID, ok := participantIDs(c)
	if !ok {
		return
	}
	event, err := h.service.AddParticipant(c.Request.Context(), eventID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "报名成功", response.FilterEventInfo(event))
}

// Leave 取消报名
func (h *EventHandler) Leave(c *gin.Context) {
	eventID, userID, ok := participantIDs(c)
	if !ok {
		return
	}
	event, err := h.service.RemoveParticipant(c.Request.Context(), eventID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已取消报名", response.FilterEventInfo(event))
}
