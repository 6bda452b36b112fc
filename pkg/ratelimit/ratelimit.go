// Package ratelimit 按客户端限流的 gin 中间件
package ratelimit

import (
	"sync"
	"time"

	"gamehub/config"
	"gamehub/pkg/logger"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxLimiters 超过后整体重置，防止被伪造IP撑爆内存
const maxLimiters = 10000

// Limiter 每个客户端一个令牌桶
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// New 创建限流器
func New(cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxLimiters {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Allow 判断 key 是否还有令牌
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Middleware 以客户端IP为键限流，超限返回429
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !l.Allow(key) {
			logger.Warn("请求被限流",
				zap.String("ip", key),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", "1")
			response.TooManyRequests(c, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StartCleanup 定期清空限流表，done 关闭时退出
func (l *Limiter) StartCleanup(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				l.mu.Lock()
				l.limiters = make(map[string]*rate.Limiter)
				l.mu.Unlock()
			}
		}
	}()
}
