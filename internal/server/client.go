package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/palemoky/electric-chair/internal/logger"
	"github.com/palemoky/electric-chair/internal/metrics"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096

	// 超速次数达到该值后断开
	maxRateStrikes = 5
)

// Client 代表一个 WebSocket 连接
type Client struct {
	ID string // 连接唯一 ID
	IP string // 客户端 IP 地址

	server  *Server
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	mu       sync.RWMutex
	roomCode string
	closed   bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:      uuid.New().String(),
		server:  s,
		conn:    conn,
		send:    make(chan []byte, 256),
		limiter: newMessageLimiter(s.config.Security.MessageLimit),
	}
}

// ReadPump 从 WebSocket 读取消息，退出时处理断开
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	strikes := 0
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误: %v", err)
			}
			return
		}

		if !c.limiter.Allow() {
			strikes++
			log.Printf("⚠️ 客户端 %s (IP: %s) 消息过于频繁", c.ID, c.IP)
			if strikes > maxRateStrikes {
				log.Printf("🚫 客户端 %s 因多次超速被断开连接", c.ID)
				return
			}
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeRateLimit))
			continue
		}

		msg, err := codec.Decode(data)
		if err != nil {
			log.Printf("消息解析错误 (%s): %v", c.ID, err)
			continue
		}

		start := time.Now()
		c.server.handler.Handle(c, msg)
		c.server.metrics.MessageReceived(messageLabel(msg.Type), time.Since(start))
		codec.PutMessage(msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给客户端，连接已关闭时直接丢弃
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		log.Printf("消息编码错误: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		// 发送缓冲区已满，关闭连接
		log.Printf("客户端 %s 发送缓冲区已满", c.ID)
		c.closeLocked()
	}
}

// handleDisconnect 处理断开连接：先停止写入，再离开房间
func (c *Client) handleDisconnect() {
	c.Close()
	c.server.unregisterClient(c)
	c.server.handler.HandleDisconnect(c)
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// GetID 获取连接 ID
func (c *Client) GetID() string {
	return c.ID
}

// SetRoom 设置客户端所在房间
func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

// GetRoom 获取客户端所在房间
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

// messageLabel 指标中的消息类型标签，非客户端消息类型统一记为 unknown
func messageLabel(t protocol.MessageType) string {
	if !t.IsClientMessage() {
		return metrics.UnknownMessageType
	}
	return string(t)
}
