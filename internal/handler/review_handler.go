package handler

import (
	"gamehub/internal/model"
	"gamehub/internal/service"
	"gamehub/pkg/jwt"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReviewHandler 评价接口
type ReviewHandler struct {
	service *service.ReviewService
}

// NewReviewHandler 创建评价接口
func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: s}
}

// List 全部评价
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.service.ListReviews(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterReviews(reviews))
}

// Get 获取评价
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	review, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterReviewInfo(review))
}

// ByGame 某游戏的评价
func (h *ReviewHandler) ByGame(c *gin.Context) {
	gameID, ok := idParam(c, "gameId")
	if !ok {
		return
	}
	reviews, err := h.service.ReviewsByGame(c.Request.Context(), gameID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterReviews(reviews))
}

// ByUser 某用户的评价
func (h *ReviewHandler) ByUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	reviews, err := h.service.ReviewsByUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterReviews(reviews))
}

// authorize 评价作者或管理员
func (h *ReviewHandler) authorize(c *gin.Context, id uint) bool {
	review, err := h.service.GetReview(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return false
	}
	if !jwt.IsSelfOrHasRole(c, review.UserID, string(model.RoleAdministrator)) {
		response.Forbidden(c, "只能操作自己的评价")
		return false
	}
	return true
}

// Update 部分更新评价
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !h.authorize(c, id) {
		return
	}
	var req struct {
		Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	review, err := h.service.UpdateReview(c.Request.Context(), id, service.ReviewUpdate{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", response.FilterReviewInfo(review))
}

// Delete 删除评价
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !h.authorize(c, id) {
		return
	}
	if err := h.service.DeleteReview(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已删除", nil)
}
