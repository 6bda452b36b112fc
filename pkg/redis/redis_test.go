package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = Close() })
	return mr
}

func offlinePushCount(userID uint) (int64, error) {
	return client.LLen(ctx, userKey(OfflinePushKeyPrefix, userID)).Result()
}

func getUserPresence(userID uint) (*PresenceData, error) {
	data, err := client.Get(ctx, userKey(PresenceKeyPrefix, userID)).Result()
	if err != nil {
		return nil, err
	}
	var presence PresenceData
	if err := json.Unmarshal([]byte(data), &presence); err != nil {
		return nil, err
	}
	return &presence, nil
}

func TestDisabledClientReturnsNotInitialized(t *testing.T) {
	SetClient(nil)

	assert.False(t, Enabled())
	assert.ErrorIs(t, IncrementUnreadCount(1), ErrNotInitialized)
	_, _, err := GetCachedRecommendations(1)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, AddOfflinePush(1, []byte("{}")), ErrNotInitialized)
}

func TestUnreadCountLifecycle(t *testing.T) {
	setupMiniredis(t)

	count, err := GetUnreadCount(42)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), count, "missing key signals a database fallback")

	require.NoError(t, IncrementUnreadCount(42))
	require.NoError(t, IncrementUnreadCount(42))
	count, err = GetUnreadCount(42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, DecrementUnreadCount(42))
	require.NoError(t, DecrementUnreadCount(42))
	count, err = GetUnreadCount(42)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), count, "key is removed once it reaches zero")

	require.NoError(t, SetUnreadCount(42, 7))
	count, _ = GetUnreadCount(42)
	assert.Equal(t, int64(7), count)
	require.NoError(t, ResetUnreadCount(42))
	count, _ = GetUnreadCount(42)
	assert.Equal(t, int64(-1), count)
}

func TestOfflinePushesKeepOrderAndClear(t *testing.T) {
	setupMiniredis(t)

	require.NoError(t, AddOfflinePush(3, []byte(`{"n":1}`)))
	require.NoError(t, AddOfflinePush(3, []byte(`{"n":2}`)))

	n, err := offlinePushCount(3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := PopOfflinePushes(3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.JSONEq(t, `{"n":1}`, string(items[0]))
	assert.JSONEq(t, `{"n":2}`, string(items[1]))

	n, err = offlinePushCount(3)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOfflinePushesAreCapped(t *testing.T) {
	setupMiniredis(t)

	for i := 0; i < MaxOfflinePushes+5; i++ {
		require.NoError(t, AddOfflinePush(9, []byte(`{}`)))
	}
	n, err := offlinePushCount(9)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxOfflinePushes), n)
}

func TestRecommendationCache(t *testing.T) {
	mr := setupMiniredis(t)

	_, ok, err := GetCachedRecommendations(5)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, CacheRecommendations(5, []uint{3, 4, 3}, time.Minute))
	ids, ok, err := GetCachedRecommendations(5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []uint{3, 4, 3}, ids, "duplicates and order survive the cache")

	require.NoError(t, CacheRecommendations(6, []uint{1}, time.Minute))
	require.NoError(t, InvalidateRecommendations(5))
	_, ok, _ = GetCachedRecommendations(5)
	assert.False(t, ok)

	require.NoError(t, InvalidateAllRecommendations())
	_, ok, _ = GetCachedRecommendations(6)
	assert.False(t, ok)

	require.NoError(t, CacheRecommendations(7, []uint{1}, time.Minute))
	mr.FastForward(2 * time.Minute)
	_, ok, _ = GetCachedRecommendations(7)
	assert.False(t, ok, "entries expire with their TTL")
}

func TestPresence(t *testing.T) {
	setupMiniredis(t)

	require.NoError(t, SetUserPresence(1, "alice", "online"))
	require.NoError(t, SetUserPresence(2, "bob", "online"))
	require.NoError(t, SetUserPresence(2, "bob", "offline"))

	online, err := GetOnlineUsersWithDetails()
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "alice", online[0].Username)
	assert.True(t, online[0].Connected)

	require.NoError(t, RefreshUserPresence(1))
	assert.Error(t, RefreshUserPresence(99))

	p, err := getUserPresence(1)
	require.NoError(t, err)
	assert.Equal(t, "online", p.Status)
}

func TestPresenceDropsExpiredMembers(t *testing.T) {
	mr := setupMiniredis(t)

	require.NoError(t, SetUserPresence(1, "alice", "online"))
	mr.FastForward(PresenceTTL + time.Second)

	online, err := GetOnlineUsersWithDetails()
	require.NoError(t, err)
	assert.Empty(t, online)
	_, err = getUserPresence(1)
	assert.Error(t, err)

	members, err := mr.SMembers(OnlineUsersKey)
	if err == nil {
		assert.Empty(t, members)
	}
}
