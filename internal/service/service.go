package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gamehub/pkg/apperr"
	"gamehub/pkg/logger"
	"gamehub/pkg/redis"

	"go.uber.org/zap"
)

// Pusher 实时推送通道，由 websocket.Manager 实现
type Pusher interface {
	Push(userID uint, eventType string, data interface{})
}

type nopPusher struct{}

func (nopPusher) Push(uint, string, interface{}) {}

// now 可在测试中替换
var now = time.Now

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ignoreCacheErr Redis 是可选依赖，未启用时静默，其余错误只记录
func ignoreCacheErr(op string, err error) {
	if err == nil || errors.Is(err, redis.ErrNotInitialized) {
		return
	}
	logger.Warn("缓存操作失败", zap.String("op", op), zap.Error(err))
}

// mustExist 将 Exists 查询结果转换为 NotFound
func mustExist(ok bool, err error, what string) error {
	if err != nil {
		return apperr.Internal(err, "check %s", what)
	}
	if !ok {
		return apperr.NotFound("%s not found", what)
	}
	return nil
}

// backgroundCtx 请求结束后仍需完成的副作用使用独立的上下文
func backgroundCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
