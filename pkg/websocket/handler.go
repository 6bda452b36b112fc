package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gamehub/config"
	"gamehub/pkg/jwt"
	"gamehub/pkg/logger"
	"gamehub/pkg/metrics"
	"gamehub/pkg/redis"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// InboundMessage 客户端发来的消息
// type: chat / ack_read / heartbeat
type InboundMessage struct {
	Type           string `json:"type"`
	To             uint   `json:"to,omitempty"`
	Content        string `json:"content,omitempty"`
	NotificationID uint   `json:"notification_id,omitempty"`
}

// Dispatcher 处理客户端上行消息（聊天、已读回执）
type Dispatcher interface {
	Dispatch(userID uint, msg InboundMessage)
}

// Handler WebSocket 接入点
type Handler struct {
	jwt        *jwt.JWTService
	cfg        config.WebSocketConfig
	manager    *Manager
	dispatcher Dispatcher
}

// NewHandler 创建 WebSocket 接入点
func NewHandler(jwtSvc *jwt.JWTService, cfg config.WebSocketConfig, manager *Manager, dispatcher Dispatcher) *Handler {
	return &Handler{jwt: jwtSvc, cfg: cfg, manager: manager, dispatcher: dispatcher}
}

// ServeWS Gin路由处理函数
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Sec-WebSocket-Protocol"), "Bearer ")
	}
	if token == "" {
		response.Unauthorized(c, "缺少token")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Unauthorized(c, "token无效或已过期")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		response.Unauthorized(c, "token无效")
		return
	}
	username := claims.Username

	// 回显子协议，避免客户端提示 "Server sent no subprotocol"
	respHeader := http.Header{}
	if protocol := c.GetHeader("Sec-WebSocket-Protocol"); protocol != "" {
		respHeader.Set("Sec-WebSocket-Protocol", protocol)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, respHeader)
	if err != nil {
		logger.Warn("WebSocket升级失败", zap.Error(err))
		return
	}

	client := NewClient(userID, conn)
	// 重连替换旧连接时连接数不变
	if !h.manager.AddClient(client) {
		metrics.WSConnected()
	}
	_ = redis.SetUserPresence(userID, username, "online")
	logger.Info("WebSocket连接建立", zap.Uint("user_id", userID))

	defer func() {
		// 已被新连接替换时不能把用户标记为离线
		if h.manager.RemoveClient(client) {
			metrics.WSDisconnected()
			_ = redis.SetUserPresence(userID, username, "offline")
		}
		_ = conn.Close()
		logger.Info("WebSocket连接关闭", zap.Uint("user_id", userID))
	}()

	go h.writePump(client)
	h.readPump(client)
}

// writePump 写协程 + 定时发送ping心跳
func (h *Handler) writePump(client *Client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				// 连接被移除或被新连接替换
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				_ = client.Conn.Close()
				return
			}
			_ = client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

// readPump 读协程（接收心跳/客户端消息）。若超时未收到任何读事件则断开
func (h *Handler) readPump(client *Client) {
	conn := client.Conn
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	})
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))

		var msg InboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if msg.Type == "heartbeat" {
			// 刷新用户在线状态（延长TTL）
			_ = redis.RefreshUserPresence(client.UserID)
			continue
		}
		if h.dispatcher != nil {
			h.dispatcher.Dispatch(client.UserID, msg)
		}
	}
}
