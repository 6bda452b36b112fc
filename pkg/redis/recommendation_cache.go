package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecommendationKeyPrefix 推荐结果缓存key前缀
const RecommendationKeyPrefix = KeyPrefix + "recommendations:"

// CacheRecommendations 缓存用户的推荐游戏ID（保持顺序，允许重复）
func CacheRecommendations(userID uint, gameIDs []uint, ttl time.Duration) error {
	if client == nil {
		return ErrNotInitialized
	}

	data, err := json.Marshal(gameIDs)
	if err != nil {
		return fmt.Errorf("序列化推荐结果失败: %w", err)
	}
	if err := client.Set(ctx, userKey(RecommendationKeyPrefix, userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("缓存推荐结果失败: %w", err)
	}
	return nil
}

// GetCachedRecommendations 读取缓存的推荐游戏ID，未命中返回 ok=false
func GetCachedRecommendations(userID uint) ([]uint, bool, error) {
	if client == nil {
		return nil, false, ErrNotInitialized
	}

	data, err := client.Get(ctx, userKey(RecommendationKeyPrefix, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("读取推荐缓存失败: %w", err)
	}

	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false, fmt.Errorf("反序列化推荐缓存失败: %w", err)
	}
	return ids, true, nil
}

// InvalidateRecommendations 删除用户的推荐缓存（购买后调用）
func InvalidateRecommendations(userIDs ...uint) error {
	if client == nil {
		return ErrNotInitialized
	}
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, userKey(RecommendationKeyPrefix, id))
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除推荐缓存失败: %w", err)
	}
	return nil
}

// InvalidateAllRecommendations 清空全部推荐缓存（游戏目录变化时调用）
func InvalidateAllRecommendations() error {
	if client == nil {
		return ErrNotInitialized
	}

	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, RecommendationKeyPrefix+"*", 500).Result()
		if err != nil {
			return fmt.Errorf("扫描推荐缓存失败: %w", err)
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("删除推荐缓存失败: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
