package handler

import (
	"gamehub/internal/service"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// RecommendationHandler 推荐接口
type RecommendationHandler struct {
	service *service.RecommendationService
}

// NewRecommendationHandler 创建推荐接口
func NewRecommendationHandler(s *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: s}
}

// ForUser 按已购游戏类型推荐
func (h *RecommendationHandler) ForUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	games, err := h.service.GetRecommendationsForUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterGames(games))
}
