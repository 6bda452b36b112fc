package redis

import (
	"encoding/json"
	"fmt"
	"time"
)

// PresenceData 在线状态数据
type PresenceData struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Status    string    `json:"status"` // online/offline
	LastSeen  time.Time `json:"last_seen"`
	Connected bool      `json:"connected"` // 是否有活跃WebSocket连接
}

// 在线状态相关常量
const (
	PresenceKeyPrefix = KeyPrefix + "presence:user:" // 用户在线状态key前缀
	OnlineUsersKey    = KeyPrefix + "online:users"   // 在线用户集合key
	PresenceTTL       = 3 * time.Minute              // 在线状态TTL（2倍心跳周期）
)

// SetUserPresence 设置用户在线状态
func SetUserPresence(userID uint, username string, status string) error {
	if client == nil {
		return ErrNotInitialized
	}

	presence := PresenceData{
		UserID:    userID,
		Username:  username,
		Status:    status,
		LastSeen:  time.Now(),
		Connected: status == "online",
	}

	data, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("序列化在线状态失败: %w", err)
	}

	if err := client.Set(ctx, userKey(PresenceKeyPrefix, userID), data, PresenceTTL).Err(); err != nil {
		return fmt.Errorf("设置用户在线状态失败: %w", err)
	}

	// 更新在线用户集合
	if status == "online" {
		err = client.SAdd(ctx, OnlineUsersKey, userID).Err()
	} else {
		err = client.SRem(ctx, OnlineUsersKey, userID).Err()
	}
	if err != nil {
		return fmt.Errorf("更新在线用户集合失败: %w", err)
	}

	return nil
}

// GetOnlineUsersWithDetails 获取在线用户详细信息
// 一次 MGET 读取全部在线状态，TTL 已过期的成员从集合中移除
func GetOnlineUsersWithDetails() ([]PresenceData, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}

	members, err := client.SMembers(ctx, OnlineUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("获取在线用户列表失败: %w", err)
	}
	if len(members) == 0 {
		return []PresenceData{}, nil
	}

	keys := make([]string, len(members))
	for i, member := range members {
		keys[i] = PresenceKeyPrefix + member
	}
	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("获取在线状态失败: %w", err)
	}

	presences := make([]PresenceData, 0, len(members))
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		var presence PresenceData
		if !ok || json.Unmarshal([]byte(raw), &presence) != nil {
			stale = append(stale, members[i])
			continue
		}
		presences = append(presences, presence)
	}
	if len(stale) > 0 {
		client.SRem(ctx, OnlineUsersKey, stale...)
	}

	return presences, nil
}

// RefreshUserPresence 刷新用户在线状态（延长TTL）
func RefreshUserPresence(userID uint) error {
	if client == nil {
		return ErrNotInitialized
	}

	ok, err := client.Expire(ctx, userKey(PresenceKeyPrefix, userID), PresenceTTL).Result()
	if err != nil {
		return fmt.Errorf("刷新用户在线状态失败: %w", err)
	}
	if !ok {
		return fmt.Errorf("用户不在线")
	}
	return nil
}
