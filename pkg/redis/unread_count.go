package redis

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 未读通知计数相关常量
const (
	UnreadCountKeyPrefix = KeyPrefix + "notify:unread:" // 未读通知计数key前缀
	UnreadCountTTL       = 24 * time.Hour
)

// IncrementUnreadCount 增加用户未读通知计数
func IncrementUnreadCount(userID uint) error {
	if client == nil {
		return ErrNotInitialized
	}

	key := userKey(UnreadCountKeyPrefix, userID)

	// INCR + EXPIRE 放在同一个事务管道中
	pipe := client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, UnreadCountTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("增加未读通知计数失败: %w", err)
	}
	return nil
}

// DecrementUnreadCount 减少用户未读通知计数，归零后删除key
func DecrementUnreadCount(userID uint) error {
	if client == nil {
		return ErrNotInitialized
	}

	key := userKey(UnreadCountKeyPrefix, userID)

	count, err := client.Decr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("减少未读通知计数失败: %w", err)
	}
	if count <= 0 {
		client.Del(ctx, key)
	}
	return nil
}

// GetUnreadCount 获取用户未读通知计数
// key 不存在时返回 -1，表示需要从数据库获取
func GetUnreadCount(userID uint) (int64, error) {
	if client == nil {
		return 0, ErrNotInitialized
	}

	count, err := client.Get(ctx, userKey(UnreadCountKeyPrefix, userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return 0, fmt.Errorf("获取未读通知计数失败: %w", err)
	}
	return count, nil
}

// SetUnreadCount 设置用户未读通知计数（用于初始化或重置）
func SetUnreadCount(userID uint, count int64) error {
	if client == nil {
		return ErrNotInitialized
	}

	if err := client.Set(ctx, userKey(UnreadCountKeyPrefix, userID), count, UnreadCountTTL).Err(); err != nil {
		return fmt.Errorf("设置未读通知计数失败: %w", err)
	}
	return nil
}

// ResetUnreadCount 重置用户未读通知计数为0
func ResetUnreadCount(userID uint) error {
	if client == nil {
		return ErrNotInitialized
	}

	if err := client.Del(ctx, userKey(UnreadCountKeyPrefix, userID)).Err(); err != nil {
		return fmt.Errorf("重置未读通知计数失败: %w", err)
	}
	return nil
}
