package game

import (
	"github.com/palemoky/electric-chair/internal/apperrors"
)

// 规则常量
const (
	ChairCount = 12 // 椅子数量，椅子号即分值
	MaxInnings = 8  // 总局数
	WinScore   = 40 // 达到即获胜
	MaxOuts    = 3  // 被电 3 次判负
)

// Phase 对局阶段
type Phase string

const (
	PhaseWaiting     Phase = "WAITING"
	PhaseSetTrap     Phase = "SET_TRAP"
	PhaseChooseChair Phase = "CHOOSE_CHAIR"
	PhaseReveal      Phase = "REVEAL"
	PhaseGameOver    Phase = "GAME_OVER"
)

// 历史记录取值：0 未进行，-1 被电，1..12 坐下的椅子
const (
	markEmpty = 0
	markOut   = -1
)

// secondMover 每局后设置陷阱的座位（开局时坐椅子的一方），它设置完一局才结束
const secondMover = Seat1

// Result 单次选择的结果
type Result string

const (
	ResultSafe Result = "SAFE"
	ResultOut  Result = "OUT"
)

// Reason 对局结束原因
type Reason string

const (
	ReasonScore   Reason = "score"
	ReasonOuts    Reason = "outs"
	ReasonInnings Reason = "innings"
)

// Reveal 一次选择的结算
type Reveal struct {
	ChosenChair int
	TrapChair   int
	Result      Result
	ScoreGained int
	Sitter      Seat
}

// Outcome 对局结果
type Outcome struct {
	Winner Seat
	Draw   bool
	Reason Reason
}

// WinnerID 线上使用的胜者 ID，平局为 draw
func (o Outcome) WinnerID() string {
	if o.Draw {
		return "draw"
	}
	return o.Winner.String()
}

// Advance 确认揭晓后的推进结果
type Advance int

const (
	AdvanceWaiting  Advance = iota // 仍在等待另一方确认，或是重复确认
	AdvanceNextTurn                // 双方已确认，角色已交换，等待开始下一回合
	AdvanceGameOver                // 双方已确认，对局结束
)

// State 一个房间的对局状态，由房间独占，调用方负责加锁
type State struct {
	Phase       Phase
	Inning      int
	Chairs      [ChairCount]bool // true 表示还可以坐
	Scores      [2]int
	Outs        [2]int
	History     [2][MaxInnings]int
	TrapChair   int // 0 表示未设置
	ChosenChair int // 0 表示未选择
	Setter      Seat
	Sitter      Seat

	acks    [2]bool
	outcome *Outcome
}

// NewState 创建初始状态：第 1 局，Seat2 先设置陷阱
func NewState() *State {
	s := &State{
		Phase:  PhaseWaiting,
		Inning: 1,
		Setter: Seat2,
		Sitter: Seat1,
	}
	for i := range s.Chairs {
		s.Chairs[i] = true
	}
	return s
}

// StartTrapPhase 进入设置陷阱阶段
// 只允许从 WAITING（开局）或已越过揭晓屏障的 REVEAL（下一回合）进入
func (s *State) StartTrapPhase() error {
	switch {
	case s.Phase == PhaseWaiting:
	case s.Phase == PhaseReveal && s.barrierCrossed():
	default:
		return apperrors.ErrCannotStartTurn
	}

	s.Phase = PhaseSetTrap
	s.TrapChair = 0
	s.ChosenChair = 0
	s.acks = [2]bool{}
	return nil
}

// SetTrap 设置方藏好陷阱
func (s *State) SetTrap(seat Seat, chair int) error {
	if s.Phase != PhaseSetTrap || seat != s.Setter {
		return apperrors.ErrNotTimeToSetTrap
	}
	if err := s.checkChair(chair); err != nil {
		return err
	}

	s.TrapChair = chair
	s.Phase = PhaseChooseChair
	return nil
}

// ChooseChair 坐椅子方选择椅子，结算立即生效
func (s *State) ChooseChair(seat Seat, chair int) (Reveal, error) {
	if s.Phase != PhaseChooseChair || seat != s.Sitter {
		return Reveal{}, apperrors.ErrNotTimeToChoose
	}
	if err := s.checkChair(chair); err != nil {
		return Reveal{}, err
	}

	s.ChosenChair = chair
	s.Phase = PhaseReveal

	r := Reveal{
		ChosenChair: chair,
		TrapChair:   s.TrapChair,
		Sitter:      s.Sitter,
	}
	idx := s.Inning - 1

	if chair == s.TrapChair {
		// 被电：分数清零，椅子不作废
		r.Result = ResultOut
		s.Scores[s.Sitter] = 0
		s.Outs[s.Sitter]++
		s.History[s.Sitter][idx] = markOut
	} else {
		r.Result = ResultSafe
		r.ScoreGained = chair
		s.Scores[s.Sitter] += chair
		s.Chairs[chair-1] = false
		s.History[s.Sitter][idx] = chair
	}

	return r, nil
}

// Acknowledge 记录一方已看完揭晓动画
// 双方都确认后才推进；重复确认以及对局结束后的迟到确认都不产生效果
func (s *State) Acknowledge(seat Seat) (Advance, error) {
	switch s.Phase {
	case PhaseReveal:
	case PhaseGameOver:
		return AdvanceWaiting, nil
	default:
		return AdvanceWaiting, apperrors.ErrNotRevealing
	}

	if s.barrierCrossed() || s.acks[seat] {
		return AdvanceWaiting, nil
	}

	s.acks[seat] = true
	if !s.barrierCrossed() {
		return AdvanceWaiting, nil
	}

	return s.advance(), nil
}

// AckCount 当前揭晓已确认的人数
func (s *State) AckCount() int {
	n := 0
	for _, ok := range s.acks {
		if ok {
			n++
		}
	}
	return n
}

// CanRestart 只有对局结束后才能再来一局
func (s *State) CanRestart() error {
	if s.Phase != PhaseGameOver {
		return apperrors.ErrGameNotOver
	}
	return nil
}

// Outcome 对局结果，未结束时 ok 为 false
func (s *State) Outcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

func (s *State) barrierCrossed() bool {
	return s.acks[Seat1] && s.acks[Seat2]
}

func (s *State) checkChair(chair int) error {
	if chair < 1 || chair > ChairCount {
		return apperrors.ErrInvalidChair
	}
	if !s.Chairs[chair-1] {
		return apperrors.ErrChairNotAvailable
	}
	return nil
}

// advance 越过揭晓屏障后：先判胜负，再推进局数，最后交换角色
func (s *State) advance() Advance {
	if o, ok := s.checkWinner(); ok {
		s.finish(o)
		return AdvanceGameOver
	}

	if s.Setter == secondMover {
		if s.Inning >= MaxInnings {
			s.finish(s.judge())
			return AdvanceGameOver
		}
		s.Inning++
	}

	s.Setter, s.Sitter = s.Sitter, s.Setter
	return AdvanceNextTurn
}

// checkWinner 按固定优先级判定：分数优先于出局数，Seat1 优先于 Seat2
func (s *State) checkWinner() (Outcome, bool) {
	for _, seat := range Seats {
		if s.Scores[seat] >= WinScore {
			return Outcome{Winner: seat, Reason: ReasonScore}, true
		}
	}
	for _, seat := range Seats {
		if s.Outs[seat] >= MaxOuts {
			return Outcome{Winner: seat.Other(), Reason: ReasonOuts}, true
		}
	}
	return Outcome{}, false
}

// judge 局数用完后按分数判定
func (s *State) judge() Outcome {
	switch {
	case s.Scores[Seat1] > s.Scores[Seat2]:
		return Outcome{Winner: Seat1, Reason: ReasonInnings}
	case s.Scores[Seat2] > s.Scores[Seat1]:
		return Outcome{Winner: Seat2, Reason: ReasonInnings}
	default:
		return Outcome{Draw: true, Reason: ReasonInnings}
	}
}

func (s *State) finish(o Outcome) {
	s.Phase = PhaseGameOver
	s.outcome = &o
}
