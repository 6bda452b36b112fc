package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gamehub/config"
	"gamehub/pkg/jwt"
	"gamehub/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEnv struct {
	manager *Manager
	server  *httptest.Server
	jwt     *jwt.JWTService
}

func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = redis.Close() })

	gin.SetMode(gin.TestMode)
	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "gamehub", ExpireTime: time.Hour})
	manager := NewManager()
	h := NewHandler(jwtSvc, config.WebSocketConfig{PingInterval: time.Minute, ReadTimeout: time.Minute}, manager, nil)

	r := gin.New()
	r.GET("/ws", h.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &wsEnv{manager: manager, server: srv, jwt: jwtSvc}
}

func (e *wsEnv) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func onlineStatus(userID uint) string {
	online, err := redis.GetOnlineUsersWithDetails()
	if err != nil {
		return ""
	}
	for _, p := range online {
		if p.UserID == userID {
			return p.Status
		}
	}
	return "offline"
}

func TestServeWSRequiresToken(t *testing.T) {
	env := newWSEnv(t)

	resp, err := http.Get(env.server.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp2, err := http.Get(env.server.URL + "/ws?token=garbage")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestReconnectKeepsUserOnline(t *testing.T) {
	env := newWSEnv(t)
	token, err := env.jwt.GenerateToken(1, "alice", nil)
	require.NoError(t, err)

	first := env.dial(t, token)
	require.Eventually(t, func() bool { return onlineStatus(1) == "online" }, time.Second, 10*time.Millisecond)

	second := env.dial(t, token)
	defer second.Close()

	// 旧连接被服务端关闭
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}
	_ = first.Close()

	assert.Never(t, func() bool { return onlineStatus(1) != "online" }, 300*time.Millisecond, 20*time.Millisecond,
		"closing the replaced connection must not mark the user offline")
	assert.True(t, env.manager.IsOnline(1))

	online, err := redis.GetOnlineUsersWithDetails()
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "alice", online[0].Username)

	// 关闭当前连接后才离线
	_ = second.Close()
	require.Eventually(t, func() bool { return onlineStatus(1) == "offline" }, 2*time.Second, 20*time.Millisecond)
	assert.False(t, env.manager.IsOnline(1))
}
