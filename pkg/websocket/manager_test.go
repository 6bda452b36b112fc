package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"gamehub/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	return Event{}
}

func TestPushToOnlineClient(t *testing.T) {
	redis.SetClient(nil)
	m := NewManager()
	c := NewClient(1, nil)
	m.AddClient(c)

	m.Push(1, EventChat, map[string]string{"content": "hi"})

	ev := receive(t, c)
	assert.Equal(t, EventChat, ev.Type)
	assert.True(t, m.IsOnline(1))
	assert.Equal(t, 1, m.OnlineCount())
}

func TestReplacedClientIsClosedAndStaleRemoveIgnored(t *testing.T) {
	redis.SetClient(nil)
	m := NewManager()
	first := NewClient(1, nil)
	second := NewClient(1, nil)
	assert.False(t, m.AddClient(first))
	assert.True(t, m.AddClient(second), "second connection replaces the first")

	_, ok := <-first.Send
	assert.False(t, ok, "replaced connection channel is closed")

	assert.False(t, m.RemoveClient(first))
	assert.True(t, m.IsOnline(1), "removing a stale client keeps the new one")

	assert.True(t, m.RemoveClient(second))
	assert.False(t, m.IsOnline(1))
}

func TestOfflineUserGetsQueuedPushOnConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })

	m := NewManager()
	m.Push(7, EventNotification, map[string]string{"message": "queued"})

	queued, err := mr.List(redis.OfflinePushKeyPrefix + "7")
	require.NoError(t, err)
	assert.Len(t, queued, 1)

	c := NewClient(7, nil)
	m.AddClient(c)

	ev := receive(t, c)
	assert.Equal(t, EventNotification, ev.Type)
}

func TestOfflinePushesWaitForFullBuffer(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })

	m := NewManager()
	m.Push(5, EventNotification, map[string]string{"message": "late"})

	// 缓冲区容量为1，先塞满，离线消息需等待读出后才能送达
	c := &Client{UserID: 5, Send: make(chan []byte, 1)}
	c.Send <- []byte(`{"type":"chat"}`)
	m.AddClient(c)

	// 推送协程等待期间不持有锁
	require.Eventually(t, func() bool {
		_, err := mr.List(redis.OfflinePushKeyPrefix + "5")
		return err != nil
	}, time.Second, 10*time.Millisecond, "queue popped")
	done := make(chan struct{})
	go func() {
		other := NewClient(6, nil)
		m.AddClient(other)
		m.RemoveClient(other)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager lock held while waiting on a full buffer")
	}

	assert.Equal(t, EventChat, receive(t, c).Type)
	assert.Equal(t, EventNotification, receive(t, c).Type)
}

func TestOfflinePushesStopWhenClientRemoved(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })

	m := NewManager()
	m.Push(8, EventNotification, map[string]string{"message": "late"})

	c := &Client{UserID: 8, Send: make(chan []byte, 1)}
	c.Send <- []byte(`{"type":"chat"}`)
	m.AddClient(c)
	require.Eventually(t, func() bool {
		_, err := mr.List(redis.OfflinePushKeyPrefix + "8")
		return err != nil
	}, time.Second, 10*time.Millisecond)

	// 移除后关闭 Send，推送协程不能再向其发送
	assert.True(t, m.RemoveClient(c))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, m.IsOnline(8))
}
