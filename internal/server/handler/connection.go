package handler

import (
	"log"

	"github.com/palemoky/electric-chair/internal/types"
)

// HandleDisconnect 处理连接断开：离开房间并通知留下的一方
// 不判负，留下的一方可以继续等待或自行离开
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	opponent, ok := h.roomManager.RemoveOccupant(client)
	if ok {
		log.Printf("👋 %s 离开房间，已通知对手 %s", client.GetID(), opponent.Name)
	}

	if h.server != nil {
		log.Printf("📉 %s 已断开，当前在线 %d", client.GetID(), h.server.GetOnlineCount())
	}
}
