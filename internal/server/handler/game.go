package handler

import (
	"log"

	"github.com/palemoky/electric-chair/internal/apperrors"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
	"github.com/palemoky/electric-chair/internal/types"
)

// handleSetTrap 处理设置陷阱
func (h *Handler) handleSetTrap(client types.ClientInterface, msg *protocol.Message) {
	chair, ok := parseChair(client, msg)
	if !ok {
		return
	}
	replyError(client, h.roomManager.SetTrap(client, chair))
}

// handleChooseChair 处理选择椅子
func (h *Handler) handleChooseChair(client types.ClientInterface, msg *protocol.Message) {
	chair, ok := parseChair(client, msg)
	if !ok {
		return
	}
	replyError(client, h.roomManager.ChooseChair(client, chair))
}

// handleRevealAck 处理揭晓确认
func (h *Handler) handleRevealAck(client types.ClientInterface) {
	replyError(client, h.roomManager.AcknowledgeReveal(client))
}

// handlePlayAgain 处理再来一局
func (h *Handler) handlePlayAgain(client types.ClientInterface) {
	replyError(client, h.roomManager.PlayAgain(client))
}

// parseChair 解析椅子号
// payload 不是合法 JSON 时丢弃；chair 缺失或不是整数值的数字时回复无效椅子
func parseChair(client types.ClientInterface, msg *protocol.Message) (int, bool) {
	payload, err := codec.ParsePayload[protocol.ChairPayload](msg)
	if err != nil {
		log.Printf("%s 解析失败 (%s): %v", msg.Type, client.GetID(), err)
		return 0, false
	}

	chair, ok := payload.ChairNumber()
	if !ok {
		replyError(client, apperrors.ErrInvalidChair)
		return 0, false
	}
	return chair, true
}
