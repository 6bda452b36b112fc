package redis

import (
	"context"
	"fmt"
	"time"

	"gamehub/config"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix 所有业务 key 的公共前缀
const KeyPrefix = "gamehub:"

var (
	client *redis.Client
	ctx    = context.Background()
)

// ErrNotInitialized Redis 未启用或未初始化
var ErrNotInitialized = fmt.Errorf("redis客户端未初始化")

// InitRedis 初始化Redis连接
func InitRedis(cfg config.RedisConfig) error {
	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		// 连接池配置
		PoolSize:     10,              // 连接池大小
		MinIdleConns: 5,               // 最小空闲连接
		MaxRetries:   3,               // 最大重试次数
		DialTimeout:  5 * time.Second, // 连接超时
		ReadTimeout:  3 * time.Second, // 读超时
		WriteTimeout: 3 * time.Second, // 写超时
	})

	// 测试连接
	if _, err := c.Ping(ctx).Result(); err != nil {
		_ = c.Close()
		return fmt.Errorf("redis连接失败: %w", err)
	}

	client = c
	return nil
}

// SetClient 直接注入客户端（测试中连接 miniredis）
func SetClient(c *redis.Client) {
	client = c
}

// Enabled Redis 是否可用
func Enabled() bool {
	return client != nil
}

// Close 关闭Redis连接
func Close() error {
	if client != nil {
		err := client.Close()
		client = nil
		return err
	}
	return nil
}

// HealthCheck 检查Redis健康状态
func HealthCheck() error {
	if client == nil {
		return ErrNotInitialized
	}

	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("redis连接异常: %w", err)
	}

	return nil
}

func userKey(prefix string, userID uint) string {
	return fmt.Sprintf("%s%d", prefix, userID)
}
