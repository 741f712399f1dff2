package handler

import (
	"errors"
	"log"

	"github.com/palemoky/electric-chair/internal/apperrors"
	"github.com/palemoky/electric-chair/internal/game/room"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
	"github.com/palemoky/electric-chair/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	RoomManager *room.RoomManager
}

// Handler 消息处理器
type Handler struct {
	server      types.ServerInterface
	roomManager *room.RoomManager
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:      deps.Server,
		roomManager: deps.RoomManager,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 房间操作
		protocol.MsgCreateRoom: h.handleCreateRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,

		// 游戏操作
		protocol.MsgSetTrap:     h.handleSetTrap,
		protocol.MsgChooseChair: h.handleChooseChair,
		protocol.MsgRevealAck:   func(c types.ClientInterface, _ *protocol.Message) { h.handleRevealAck(c) },
		protocol.MsgPlayAgain:   func(c types.ClientInterface, _ *protocol.Message) { h.handlePlayAgain(c) },
	}
}

// Handle 处理消息，未知类型直接丢弃
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (来自 %s)，已忽略", msg.Type, client.GetID())
}

// replyError 把房间/对局错误回复给发送者
func replyError(client types.ClientInterface, err error) {
	if err == nil {
		return
	}
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}
