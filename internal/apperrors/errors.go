package apperrors

import (
	"github.com/palemoky/electric-chair/internal/protocol"
)

// GameError 游戏错误（房间和对局共享），会原样回复给发送者
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound      = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull          = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom         = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrOpponentMissing   = &GameError{Code: protocol.ErrCodeOpponentMissing, Message: "对手已离开房间"}
	ErrNotTimeToSetTrap  = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "现在不是设置陷阱的时机"}
	ErrNotTimeToChoose   = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "现在不是选椅子的时机"}
	ErrNotRevealing      = &GameError{Code: protocol.ErrCodeWrongPhase, Message: "当前没有需要确认的揭晓"}
	ErrGameNotOver       = &GameError{Code: protocol.ErrCodeWrongPhase, Message: "游戏尚未结束"}
	ErrCannotStartTurn   = &GameError{Code: protocol.ErrCodeWrongPhase, Message: "当前阶段不能开始新回合"}
	ErrInvalidChair      = &GameError{Code: protocol.ErrCodeInvalidChair, Message: "无效的椅子"}
	ErrChairNotAvailable = &GameError{Code: protocol.ErrCodeInvalidChair, Message: "这把椅子已经被坐过了"}
)
