package handler

import (
	"log"

	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
	"github.com/palemoky/electric-chair/internal/types"
)

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		log.Printf("CREATE_ROOM 解析失败 (%s): %v", client.GetID(), err)
		return
	}

	// 如果已在房间中，先离开
	h.leaveCurrentRoom(client)

	_, err = h.roomManager.CreateRoom(client, payload.PlayerName)
	replyError(client, err)
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		log.Printf("JOIN_ROOM 解析失败 (%s): %v", client.GetID(), err)
		return
	}

	h.leaveCurrentRoom(client)

	_, _, err = h.roomManager.JoinRoom(client, payload.RoomCode, payload.PlayerName)
	replyError(client, err)
}

// leaveCurrentRoom 离开当前房间，对手会收到断开通知
func (h *Handler) leaveCurrentRoom(client types.ClientInterface) {
	if client.GetRoom() == "" {
		return
	}
	h.roomManager.RemoveOccupant(client)
}
