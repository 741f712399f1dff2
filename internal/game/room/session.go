package room

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/electric-chair/internal/apperrors"
	"github.com/palemoky/electric-chair/internal/game"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
	"github.com/palemoky/electric-chair/internal/server/storage"
	"github.com/palemoky/electric-chair/internal/types"
)

// drawName 平局时 GAME_OVER 中的 winnerName
const drawName = "平局"

// SetTrap 设置方藏好陷阱
func (rm *RoomManager) SetTrap(client types.ClientInterface, chair int) error {
	return rm.withSeat(client, func(r *Room, seat game.Seat) error {
		if !r.full() {
			return apperrors.ErrOpponentMissing
		}
		if err := r.state.SetTrap(seat, chair); err != nil {
			return err
		}

		client.SendMessage(codec.MustNewMessage(protocol.MsgTrapSetOK, nil))

		payload := r.turnPayloadLocked()
		r.sendTo(r.state.Sitter, codec.MustNewMessage(protocol.MsgYourTurnChooseChair, payload))
		r.sendTo(r.state.Setter, codec.MustNewMessage(protocol.MsgWaitForChoice, payload))

		rm.persistLocked(r)
		return nil
	})
}

// ChooseChair 坐椅子方选择椅子，双方收到完全相同的揭晓结果
func (rm *RoomManager) ChooseChair(client types.ClientInterface, chair int) error {
	return rm.withSeat(client, func(r *Room, seat game.Seat) error {
		if !r.full() {
			return apperrors.ErrOpponentMissing
		}
		reveal, err := r.state.ChooseChair(seat, chair)
		if err != nil {
			return err
		}

		r.broadcast(codec.MustNewMessage(protocol.MsgReveal, protocol.RevealPayload{
			ChosenChair: reveal.ChosenChair,
			TrapChair:   reveal.TrapChair,
			Result:      string(reveal.Result),
			ScoreGained: reveal.ScoreGained,
			GameState:   r.state.Snapshot(),
			SitterID:    reveal.Sitter.String(),
		}))

		log.Printf("🪑 房间 %s 第 %d 局: %s 选择 %d 号，陷阱 %d 号，结果 %s",
			r.Code, r.state.Inning, r.nameOf(seat), reveal.ChosenChair, reveal.TrapChair, reveal.Result)

		rm.persistLocked(r)
		return nil
	})
}

// AcknowledgeReveal 一方看完揭晓动画
// 双方都确认后：对局结束则广播 GAME_OVER，否则延迟开始下一回合
func (rm *RoomManager) AcknowledgeReveal(client types.ClientInterface) error {
	return rm.withSeat(client, func(r *Room, seat game.Seat) error {
		// 对手已离开时确认不再有意义
		if !r.full() {
			return nil
		}
		adv, err := r.state.Acknowledge(seat)
		if err != nil {
			return err
		}

		switch adv {
		case game.AdvanceNextTurn:
			rm.scheduleTrapPhaseLocked(r, rm.turnDelay)
		case game.AdvanceGameOver:
			rm.finishLocked(r)
		}
		return nil
	})
}

// PlayAgain 对局结束后任意一方请求再来一局，整体替换对局状态
func (rm *RoomManager) PlayAgain(client types.ClientInterface) error {
	return rm.withSeat(client, func(r *Room, _ game.Seat) error {
		if !r.full() {
			return apperrors.ErrOpponentMissing
		}
		// 双方同时点了再来一局，后到的请求落在已重置的房间上
		if r.state.Phase == game.PhaseWaiting {
			return nil
		}
		if err := r.state.CanRestart(); err != nil {
			return err
		}

		r.state = game.NewState()
		r.epoch++
		r.broadcast(codec.MustNewMessage(protocol.MsgGameReset, nil))

		log.Printf("🔁 房间 %s 再来一局", r.Code)

		rm.persistLocked(r)
		rm.scheduleTrapPhaseLocked(r, rm.startDelay)
		return nil
	})
}

// withSeat 找到客户端所在房间与座位，在房间锁内执行 fn
func (rm *RoomManager) withSeat(client types.ClientInterface, fn func(r *Room, seat game.Seat) error) error {
	r := rm.Resolve(client)
	if r == nil {
		return apperrors.ErrNotInRoom
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seatOf(client)
	if !ok {
		return apperrors.ErrNotInRoom
	}
	return fn(r, seat)
}

// scheduleTrapPhaseLocked 延迟进入设置陷阱阶段
// 回调执行时房间已被删除、epoch 变化、阶段变化或有人离开，都直接放弃
func (rm *RoomManager) scheduleTrapPhaseLocked(r *Room, delay time.Duration) {
	epoch, phase := r.epoch, r.state.Phase
	rm.scheduler.AfterFunc(delay, func() {
		if !rm.isLive(r) {
			return
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		if r.epoch != epoch || r.state.Phase != phase || !r.full() {
			return
		}
		rm.beginTrapPhaseLocked(r)
	})
}

// beginTrapPhaseLocked 进入设置陷阱阶段并分别提示双方
func (rm *RoomManager) beginTrapPhaseLocked(r *Room) {
	if err := r.state.StartTrapPhase(); err != nil {
		log.Printf("⚠️ 房间 %s 无法开始新回合: %v", r.Code, err)
		return
	}

	payload := r.turnPayloadLocked()
	r.sendTo(r.state.Setter, codec.MustNewMessage(protocol.MsgYourTurnSetTrap, payload))
	r.sendTo(r.state.Sitter, codec.MustNewMessage(protocol.MsgWaitForTrap, payload))

	rm.persistLocked(r)
}

// finishLocked 广播对局结果并记录
func (rm *RoomManager) finishLocked(r *Room) {
	outcome, ok := r.state.Outcome()
	if !ok {
		return
	}

	winnerName := drawName
	if !outcome.Draw {
		winnerName = r.nameOf(outcome.Winner)
	}
	scores, outs := r.state.ScoreBoard()

	r.broadcast(codec.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		WinnerID:   outcome.WinnerID(),
		WinnerName: winnerName,
		Reason:     string(outcome.Reason),
		Scores:     scores,
		Outs:       outs,
		Innings:    r.state.Innings(),
	}))

	log.Printf("🏁 房间 %s 对局结束: 胜者 %s (%s)，比分 %d:%d",
		r.Code, winnerName, outcome.Reason, scores.P1, scores.P2)

	rm.recorder.MatchFinished(string(outcome.Reason))

	result := &storage.MatchResult{
		RoomCode:   r.Code,
		WinnerID:   outcome.WinnerID(),
		WinnerName: winnerName,
		Reason:     string(outcome.Reason),
		P1Name:     r.nameOf(game.Seat1),
		P2Name:     r.nameOf(game.Seat2),
		P1Score:    scores.P1,
		P2Score:    scores.P2,
		FinishedAt: time.Now().Unix(),
	}
	go func() { _ = rm.store.RecordMatch(context.Background(), result) }()

	rm.persistLocked(r)
}

// turnPayloadLocked 回合提示的公共内容
func (r *Room) turnPayloadLocked() protocol.TurnPayload {
	return protocol.TurnPayload{
		GameState:  r.state.Snapshot(),
		SetterName: r.nameOf(r.state.Setter),
		SitterName: r.nameOf(r.state.Sitter),
	}
}
