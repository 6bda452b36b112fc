package redis

import (
	"fmt"
	"time"
)

// 离线推送相关常量
const (
	OfflinePushKeyPrefix = KeyPrefix + "offline:" // 离线推送key前缀
	OfflinePushTTL       = 7 * 24 * time.Hour     // 7天过期
	MaxOfflinePushes     = 100                    // 每个用户最多保留的离线推送数
)

// AddOfflinePush 保存一条用户离线期间的推送（原始JSON）
func AddOfflinePush(userID uint, payload []byte) error {
	if client == nil {
		return ErrNotInitialized
	}

	key := userKey(OfflinePushKeyPrefix, userID)

	// RPUSH 保持时间顺序，LTRIM 只保留最新的 MaxOfflinePushes 条
	pipe := client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, -MaxOfflinePushes, -1)
	pipe.Expire(ctx, key, OfflinePushTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("添加离线推送失败: %w", err)
	}
	return nil
}

// PopOfflinePushes 取出并清空用户的离线推送（按时间先后）
func PopOfflinePushes(userID uint) ([][]byte, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}

	key := userKey(OfflinePushKeyPrefix, userID)

	pipe := client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("获取离线推送失败: %w", err)
	}

	items := rangeCmd.Val()
	out := make([][]byte, 0, len(items))
	for _, item := range items {
		out = append(out, []byte(item))
	}
	return out, nil
}
