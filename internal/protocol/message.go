package protocol

import "encoding/json"

// Message 基础消息结构
//
// 线上格式是带 type 字段的扁平 JSON 对象，例如 {"type":"SET_TRAP","chair":5}。
// Payload 保存除 type 以外的字段（解码时保存整个原始对象）。
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"-"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 房间操作
	MsgCreateRoom MessageType = "CREATE_ROOM" // 创建房间
	MsgJoinRoom   MessageType = "JOIN_ROOM"   // 加入房间

	// 游戏操作
	MsgSetTrap     MessageType = "SET_TRAP"     // 设置陷阱
	MsgChooseChair MessageType = "CHOOSE_CHAIR" // 选择椅子
	MsgRevealAck   MessageType = "REVEAL_ACK"   // 揭晓动画播放完毕
	MsgPlayAgain   MessageType = "PLAY_AGAIN"   // 再来一局
)

// 服务端 → 客户端 消息类型
const (
	// 房间相关
	MsgRoomCreated          MessageType = "ROOM_CREATED"          // 房间创建成功
	MsgRoomJoined           MessageType = "ROOM_JOINED"           // 加入房间成功
	MsgOpponentJoined       MessageType = "OPPONENT_JOINED"       // 对手加入
	MsgOpponentDisconnected MessageType = "OPPONENT_DISCONNECTED" // 对手断开

	// 游戏流程
	MsgYourTurnSetTrap     MessageType = "YOUR_TURN_SET_TRAP"     // 轮到你设置陷阱
	MsgWaitForTrap         MessageType = "WAIT_FOR_TRAP"          // 等待对手设置陷阱
	MsgTrapSetOK           MessageType = "TRAP_SET_OK"            // 陷阱设置成功
	MsgYourTurnChooseChair MessageType = "YOUR_TURN_CHOOSE_CHAIR" // 轮到你选椅子
	MsgWaitForChoice       MessageType = "WAIT_FOR_CHOICE"        // 等待对手选椅子
	MsgReveal              MessageType = "REVEAL"                 // 揭晓结果
	MsgGameOver            MessageType = "GAME_OVER"              // 游戏结束
	MsgGameReset           MessageType = "GAME_RESET"             // 游戏重置

	// 错误
	MsgError MessageType = "ERROR" // 错误消息
)

// IsClientMessage 是否为客户端可以发送的消息类型
func (t MessageType) IsClientMessage() bool {
	switch t {
	case MsgCreateRoom, MsgJoinRoom, MsgSetTrap, MsgChooseChair, MsgRevealAck, MsgPlayAgain:
		return true
	}
	return false
}
