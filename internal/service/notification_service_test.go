package service

import (
	"context"
	"testing"
	"time"

	"gamehub/internal/model"
	"gamehub/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationSaveStampsAndMarksRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	n := &model.Notification{UserID: alice.ID, Message: "hi"}
	require.NoError(t, env.notifications.Save(ctx, n))
	assert.False(t, n.Timestamp.IsZero())
	assert.Equal(t, model.NotificationGeneric, n.Type)
	assert.False(t, n.Read)

	count, err := env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// 他人与不存在的通知都静默忽略
	require.NoError(t, env.notifications.MarkAsRead(ctx, bob.ID, n.ID))
	require.NoError(t, env.notifications.MarkAsRead(ctx, alice.ID, 999))
	count, err = env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, env.notifications.MarkAsRead(ctx, alice.ID, n.ID))
	count, err = env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnreadCountUsesRedisCounter(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	require.NoError(t, env.notifications.Notify(ctx, alice.ID, model.NotificationGeneric, "one", nil, nil))
	// 首次读取回源数据库并回填
	count, err := env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, env.notifications.Notify(ctx, alice.ID, model.NotificationGeneric, "two", nil, nil))
	cached, err := redis.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cached)

	require.NoError(t, env.notifications.MarkAllAsRead(ctx, alice.ID))
	count, err = env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteOldNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	old := &model.Notification{UserID: alice.ID, Message: "old", Timestamp: time.Now().Add(-30 * 24 * time.Hour)}
	require.NoError(t, env.repos.Notifications.Create(ctx, old))
	require.NoError(t, env.notifications.Notify(ctx, alice.ID, model.NotificationGeneric, "new", nil, nil))

	rows, err := env.notifications.DeleteOldNotifications(ctx, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	list, err := env.notifications.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Message)
}
