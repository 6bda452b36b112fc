package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gamehub/pkg/apperr"
	"gamehub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int                 `json:"code"`             // 状态码：0表示成功，其他为HTTP状态码
	Message string              `json:"message"`          // 响应消息
	Data    interface{}         `json:"data,omitempty"`   // 响应数据
	Errors  []apperr.FieldError `json:"errors,omitempty"` // 字段级校验错误
	Error   string              `json:"error,omitempty"`  // 错误详情（仅在开发环境显示）
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应，HTTP 状态码与 code 一致
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
	})
}

// ErrorWithDetails 带错误详情的错误响应
func ErrorWithDetails(c *gin.Context, status int, message string, err error) {
	resp := Response{
		Code:    status,
		Message: message,
	}

	// 在开发环境下显示错误详情
	if gin.Mode() == gin.DebugMode && err != nil {
		resp.Error = err.Error()
	}

	c.JSON(status, resp)
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403错误
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// TooManyRequests 429错误
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// ValidationFailed 400错误，附带字段列表
func ValidationFailed(c *gin.Context, fields []apperr.FieldError) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: "validation failed",
		Errors:  fields,
	})
}

// FromError 将业务错误映射为HTTP响应
// 内部错误只在服务端记录详情，客户端得到通用信息
func FromError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err, "internal server error")
	}

	if appErr.Kind == apperr.KindInternal {
		logger.Error("请求处理失败",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		ErrorWithDetails(c, http.StatusInternalServerError, "internal server error", err)
		return
	}

	status := appErr.Kind.HTTPStatus()
	c.JSON(status, Response{
		Code:    status,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

// BindError 处理请求绑定错误
// validator 的错误转换为字段列表，其余（JSON格式错误等）作为普通 400
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: describeTag(fe),
			})
		}
		ValidationFailed(c, fields)
		return
	}
	BadRequest(c, err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
