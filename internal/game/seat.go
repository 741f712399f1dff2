package game

import "fmt"

// Seat 房间内的座位，只有两个取值
type Seat int

const (
	Seat1 Seat = iota // 房主，开局时是坐椅子的一方
	Seat2             // 加入者，开局时先设置陷阱
)

// Seats 按固定顺序列出所有座位
var Seats = [2]Seat{Seat1, Seat2}

// Other 返回对手座位
func (s Seat) Other() Seat {
	if s == Seat1 {
		return Seat2
	}
	return Seat1
}

// String 线上使用的座位 ID
func (s Seat) String() string {
	switch s {
	case Seat1:
		return "p1"
	case Seat2:
		return "p2"
	default:
		return fmt.Sprintf("seat(%d)", int(s))
	}
}
