package game

import "github.com/palemoky/electric-chair/internal/protocol"

// Snapshot 生成双方可见的公共状态，不包含陷阱位置
func (s *State) Snapshot() protocol.GameState {
	return protocol.GameState{
		Inning:  s.Inning,
		Scores:  seatInts(s.Scores),
		Outs:    seatInts(s.Outs),
		Innings: s.Innings(),
		Chairs:  append([]bool(nil), s.Chairs[:]...),
	}
}

// Innings 每局历史的线上表示
func (s *State) Innings() protocol.SeatInnings {
	return protocol.SeatInnings{
		P1: marks(s.History[Seat1]),
		P2: marks(s.History[Seat2]),
	}
}

// ScoreBoard 分数与出局数
func (s *State) ScoreBoard() (scores, outs protocol.SeatInts) {
	return seatInts(s.Scores), seatInts(s.Outs)
}

func seatInts(v [2]int) protocol.SeatInts {
	return protocol.SeatInts{P1: v[Seat1], P2: v[Seat2]}
}

func marks(history [MaxInnings]int) []protocol.InningMark {
	out := make([]protocol.InningMark, len(history))
	for i, h := range history {
		switch {
		case h == markEmpty:
			out[i] = 0
		case h == markOut:
			out[i] = -1
		default:
			out[i] = protocol.InningMark(h)
		}
	}
	return out
}
