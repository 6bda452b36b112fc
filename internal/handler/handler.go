package handler

import (
	"strconv"
	"time"

	"gamehub/pkg/apperr"
	"gamehub/pkg/jwt"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// idParam 解析路径中的数字ID，失败时直接写入400响应
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUser 当前登录用户ID，未认证时写入401响应
func currentUser(c *gin.Context) (uint, bool) {
	uid, ok := jwt.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "用户未认证")
		return 0, false
	}
	return uid, true
}

// parseDate 支持 2006-01-02 与 RFC3339 两种格式
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func errInvalidDate(field string) error {
	return apperr.Validation(apperr.FieldError{Field: field, Message: "must be a date (2006-01-02) or RFC3339 timestamp"})
}
