// Package client 终端客户端使用的 WebSocket 连接
package client

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var (
	// ErrConnectionClosed 连接已关闭
	ErrConnectionClosed = errors.New("connection closed")
	// ErrSendBufferFull 发送缓冲区已满
	ErrSendBufferFull = errors.New("send buffer full")
	// ErrReceiveTimeout 接收超时
	ErrReceiveTimeout = errors.New("receive timeout")
)

// Client WebSocket 客户端
type Client struct {
	ServerURL string
	conn      *websocket.Conn
	send      chan []byte
	receive   chan *protocol.Message
	done      chan struct{}

	// 回调
	OnError func(error) // 非正常断开时调用

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建客户端
func NewClient(serverURL string) *Client {
	return &Client{
		ServerURL: serverURL,
		send:      make(chan []byte, 64),
		receive:   make(chan *protocol.Message, 64),
		done:      make(chan struct{}),
	}
}

// Connect 连接服务器
func (c *Client) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.Dial(c.ServerURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	// 启动读写协程
	go c.readPump()
	go c.writePump()

	return nil
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Receive 接收消息（阻塞），连接关闭后先返回已缓冲的消息
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return c.drain()
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-c.receive:
		return msg, nil
	case <-timer.C:
		return nil, ErrReceiveTimeout
	case <-c.done:
		return c.drain()
	}
}

func (c *Client) drain() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	default:
		return nil, ErrConnectionClosed
	}
}

// Close 关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}
