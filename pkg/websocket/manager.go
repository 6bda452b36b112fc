package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"gamehub/pkg/logger"
	"gamehub/pkg/redis"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 推送事件类型
const (
	EventChat         = "chat"
	EventNotification = "notification"
	EventError        = "error"
)

// Event 服务端推送给客户端的消息
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Client 代表一个WebSocket连接的用户
// UserID: 用户ID
// Conn: WebSocket连接
// Send: 发送消息的通道

type Client struct {
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
}

// NewClient 创建连接客户端
func NewClient(userID uint, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, Send: make(chan []byte, 256)}
}

// Manager 管理所有在线用户的WebSocket连接
// 支持并发安全、Redis离线推送存储

type Manager struct {
	clients map[uint]*Client // 在线用户
	lock    sync.RWMutex
}

// NewManager 创建连接管理器
func NewManager() *Manager {
	return &Manager{clients: make(map[uint]*Client)}
}

// AddClient 添加新连接，同一用户的旧连接会被替换，返回是否发生了替换
func (m *Manager) AddClient(client *Client) bool {
	m.lock.Lock()
	old, replaced := m.clients[client.UserID]
	if replaced && old != client {
		close(old.Send)
	}
	m.clients[client.UserID] = client
	m.lock.Unlock()

	// 推送Redis中的离线消息
	go m.pushOfflineMessages(client)
	return replaced
}

// RemoveClient 移除连接，只有当前登记的连接才会被移除
// 返回 false 表示该连接已被同一用户的新连接替换
func (m *Manager) RemoveClient(client *Client) bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	c, ok := m.clients[client.UserID]
	if !ok || c != client {
		return false
	}
	close(c.Send)
	delete(m.clients, client.UserID)
	return true
}

// IsOnline 判断用户是否在线
func (m *Manager) IsOnline(userID uint) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// OnlineCount 当前连接数
func (m *Manager) OnlineCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.clients)
}

// Push 推送事件给指定用户
func (m *Manager) Push(userID uint, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().Unix()})
	if err != nil {
		logger.Warn("序列化推送消息失败", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	m.SendToUser(userID, payload)
}

// SendToUser 推送消息给指定用户
// 若用户不在线则存储到Redis离线队列
func (m *Manager) SendToUser(userID uint, msg []byte) {
	m.lock.RLock()
	client, ok := m.clients[userID]
	if ok {
		select {
		case client.Send <- msg:
		default:
			// 发送缓冲区已满，丢弃，客户端可通过HTTP接口补拉
			logger.Warn("WebSocket发送缓冲区已满", zap.Uint("user_id", userID))
		}
	}
	m.lock.RUnlock()

	if !ok {
		if err := redis.AddOfflinePush(userID, msg); err != nil && err != redis.ErrNotInitialized {
			logger.Warn("保存离线推送失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
}

// pushOfflineMessages 推送离线消息给用户
// 缓冲区满时释放锁后重试，最多等待5秒
func (m *Manager) pushOfflineMessages(client *Client) {
	pending, err := redis.PopOfflinePushes(client.UserID)
	if err != nil || len(pending) == 0 {
		return
	}

	deadline := time.Now().Add(5 * time.Second)
	for _, msg := range pending {
		for {
			sent, registered := m.trySend(client, msg)
			if !registered {
				return
			}
			if sent {
				break
			}
			if time.Now().After(deadline) {
				logger.Warn("离线消息推送超时", zap.Uint("user_id", client.UserID))
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// trySend 非阻塞发送。Send 只会在写锁下关闭，持有读锁并确认连接仍登记时发送是安全的
func (m *Manager) trySend(client *Client, msg []byte) (sent, registered bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.clients[client.UserID] != client {
		return false, false
	}
	select {
	case client.Send <- msg:
		return true, true
	default:
		return false, true
	}
}
