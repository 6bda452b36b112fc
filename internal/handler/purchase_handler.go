package handler

import (
	"strconv"
	"time"

	"gamehub/internal/model"
	"gamehub/internal/service"
	"gamehub/pkg/apperr"
	"gamehub/pkg/jwt"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler 商店接口
type PurchaseHandler struct {
	service *service.PurchaseService
}

// NewPurchaseHandler 创建商店接口
func NewPurchaseHandler(s *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: s}
}

// Purchase 购买游戏
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	gameID, ok := idParam(c, "gameId")
	if !ok {
		return
	}
	purchase, err := h.service.PurchaseGame(c.Request.Context(), userID, gameID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "购买成功", response.FilterPurchase(purchase))
}

// amountQuery 解析可选金额参数
func amountQuery(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: name, Message: "must be a number"})
	}
	return &v, nil
}

// List 购买记录，按起始日期与金额区间过滤
func (h *PurchaseHandler) List(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	var from time.Time
	if raw := c.Query("fromDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			response.FromError(c, errInvalidDate("fromDate"))
			return
		}
		from = t
	}
	minAmount, err := amountQuery(c, "minAmount")
	if err != nil {
		response.FromError(c, err)
		return
	}
	maxAmount, err := amountQuery(c, "maxAmount")
	if err != nil {
		response.FromError(c, err)
		return
	}
	purchases, err := h.service.GetPurchases(c.Request.Context(), userID, from, minAmount, maxAmount)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterPurchases(purchases))
}

// Owns 是否拥有游戏，?userId=&gameId=
func (h *PurchaseHandler) Owns(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid userId")
		return
	}
	gameID, err := strconv.ParseUint(c.Query("gameId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid gameId")
		return
	}
	if !jwt.IsSelfOrHasRole(c, uint(userID), string(model.RoleAdministrator)) {
		response.Forbidden(c, "只能查询自己的数据")
		return
	}
	owns, err := h.service.CheckOwnership(c.Request.Context(), uint(userID), uint(gameID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"owns": owns})
}
