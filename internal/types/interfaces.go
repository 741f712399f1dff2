package types

import (
	"github.com/palemoky/electric-chair/internal/protocol"
)

// ClientInterface 定义客户端接口（用于打破 server 与 room/handler 之间的循环依赖）
type ClientInterface interface {
	GetID() string
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

// ServerInterface 定义服务器接口
type ServerInterface interface {
	GetOnlineCount() int
}
