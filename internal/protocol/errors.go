package protocol

// 错误码
const (
	ErrCodeUnknown         = 1000
	ErrCodeRateLimit       = 1002 // 速率限制
	ErrCodeRoomNotFound    = 2001
	ErrCodeRoomFull        = 2002
	ErrCodeNotInRoom       = 2003
	ErrCodeOpponentMissing = 2004 // 对手已离开
	ErrCodeNotYourTurn     = 3001
	ErrCodeWrongPhase      = 3002
	ErrCodeInvalidChair    = 3003
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:         "未知错误",
	ErrCodeRateLimit:       "请求过于频繁",
	ErrCodeRoomNotFound:    "房间不存在",
	ErrCodeRoomFull:        "房间已满",
	ErrCodeNotInRoom:       "您不在房间中",
	ErrCodeOpponentMissing: "对手已离开房间",
	ErrCodeNotYourTurn:     "还没轮到您",
	ErrCodeWrongPhase:      "当前阶段不能进行该操作",
	ErrCodeInvalidChair:    "无效的椅子",
}
