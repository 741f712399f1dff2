package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// 历史记录中 "出局" 的线上表示
const OutMark = "OUT"

// --- 客户端请求 Payloads ---

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// ChairPayload 设置陷阱 / 选择椅子请求
// chair 保留原始 JSON，是否为整数由 ChairNumber 判断，范围与可用性由对局校验
type ChairPayload struct {
	Chair json.RawMessage `json:"chair,omitempty"`
}

// NewChairPayload 构造椅子请求
func NewChairPayload(chair int) ChairPayload {
	return ChairPayload{Chair: json.RawMessage(strconv.Itoa(chair))}
}

// ChairNumber 返回椅子号
// 只接受数值为整数的 JSON 数字（5、5.0、1e1）；字符串、布尔、null、缺失都返回 false
func (p ChairPayload) ChairNumber() (int, bool) {
	raw := bytes.TrimSpace(p.Chair)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// --- 公共状态快照 ---

// SeatInts 按座位区分的整数（分数、出局数）
type SeatInts struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// InningMark 一局的结果：0 表示未进行，-1 表示出局，1..12 表示坐下的椅子
type InningMark int

// MarshalJSON 未进行为 null，出局为 "OUT"，否则为椅子号
func (m InningMark) MarshalJSON() ([]byte, error) {
	switch {
	case m == 0:
		return []byte("null"), nil
	case m < 0:
		return json.Marshal(OutMark)
	default:
		return json.Marshal(int(m))
	}
}

// UnmarshalJSON 与 MarshalJSON 对应
func (m *InningMark) UnmarshalJSON(data []byte) error {
	s := string(data)
	switch s {
	case "null":
		*m = 0
		return nil
	case `"` + OutMark + `"`:
		*m = -1
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid inning mark %s: %w", s, err)
	}
	*m = InningMark(n)
	return nil
}

// SeatInnings 按座位区分的每局结果
type SeatInnings struct {
	P1 []InningMark `json:"p1"`
	P2 []InningMark `json:"p2"`
}

// GameState 广播给双方的公共状态（不含陷阱位置）
type GameState struct {
	Inning  int         `json:"inning"`
	Scores  SeatInts    `json:"scores"`
	Outs    SeatInts    `json:"outs"`
	Innings SeatInnings `json:"innings"`
	Chairs  []bool      `json:"chairs"`
}

// --- 服务端响应 Payloads ---

// RoomCreatedPayload 房间创建成功
type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
	YourID   string `json:"yourId"`
}

// RoomJoinedPayload 加入房间成功
type RoomJoinedPayload struct {
	RoomCode     string `json:"roomCode"`
	YourID       string `json:"yourId"`
	OpponentName string `json:"opponentName"`
}

// OpponentJoinedPayload 对手加入
type OpponentJoinedPayload struct {
	OpponentName string `json:"opponentName"`
}

// TurnPayload 回合提示（YOUR_TURN_* / WAIT_FOR_*）
type TurnPayload struct {
	GameState
	SetterName string `json:"setterName"`
	SitterName string `json:"sitterName"`
}

// RevealPayload 揭晓结果，双方收到的内容完全相同
type RevealPayload struct {
	ChosenChair int    `json:"chosenChair"`
	TrapChair   int    `json:"trapChair"`
	Result      string `json:"result"` // SAFE / OUT
	ScoreGained int    `json:"scoreGained"`
	GameState
	SitterID string `json:"sitterId"`
}

// GameOverPayload 游戏结束
type GameOverPayload struct {
	WinnerID   string      `json:"winnerId"` // p1 / p2 / draw
	WinnerName string      `json:"winnerName"`
	Reason     string      `json:"reason"` // score / outs / innings
	Scores     SeatInts    `json:"scores"`
	Outs       SeatInts    `json:"outs"`
	Innings    SeatInnings `json:"innings"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
