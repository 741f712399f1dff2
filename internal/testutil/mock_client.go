//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/electric-chair/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetRoom() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetRoom(roomCode string) {
	m.Called(roomCode)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的客户端，记录收到的消息（并发安全，定时器回调会在其他 goroutine 中发送）
type SimpleClient struct {
	ID string

	mu       sync.Mutex
	roomCode string
	messages []*protocol.Message
	closed   bool
}

// NewSimpleClient 创建 SimpleClient
func NewSimpleClient(id string) *SimpleClient {
	return &SimpleClient{ID: id}
}

func (c *SimpleClient) GetID() string { return c.ID }

func (c *SimpleClient) GetRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode
}

func (c *SimpleClient) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

func (c *SimpleClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.messages = append(c.messages, msg)
}

func (c *SimpleClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// SentMessages 返回已收到消息的副本
func (c *SimpleClient) SentMessages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*protocol.Message(nil), c.messages...)
}

// Types 按顺序返回已收到消息的类型
func (c *SimpleClient) Types() []protocol.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]protocol.MessageType, len(c.messages))
	for i, m := range c.messages {
		types[i] = m.Type
	}
	return types
}

// Last 返回最后一条消息，没有时为 nil
func (c *SimpleClient) Last() *protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// LastOfType 返回最后一条指定类型的消息，没有时为 nil
func (c *SimpleClient) LastOfType(t protocol.MessageType) *protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Type == t {
			return c.messages[i]
		}
	}
	return nil
}

// Count 指定类型消息的数量
func (c *SimpleClient) Count(t protocol.MessageType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if m.Type == t {
			n++
		}
	}
	return n
}

// Reset 清空已收到的消息
func (c *SimpleClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// IsClosed 是否已被关闭
func (c *SimpleClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
