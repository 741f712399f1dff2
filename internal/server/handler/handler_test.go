package handler

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/electric-chair/internal/game/room"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
	"github.com/palemoky/electric-chair/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *room.RoomManager, *testutil.ManualScheduler) {
	t.Helper()
	sched := &testutil.ManualScheduler{}
	rm := room.NewRoomManager(room.Options{Scheduler: sched})
	server := new(testutil.MockServer)
	server.On("GetOnlineCount").Return(0).Maybe()
	return NewHandler(HandlerDeps{Server: server, RoomManager: rm}), rm, sched
}

// raw 构造一条线上原始消息
func raw(t *testing.T, text string) *protocol.Message {
	t.Helper()
	msg, err := codec.Decode([]byte(text))
	require.NoError(t, err)
	return msg
}

func payloadOf[T any](t *testing.T, msg *protocol.Message) *T {
	t.Helper()
	require.NotNil(t, msg)
	p, err := codec.ParsePayload[T](msg)
	require.NoError(t, err)
	return p
}

func errorCode(t *testing.T, c *testutil.SimpleClient) int {
	t.Helper()
	return payloadOf[protocol.ErrorPayload](t, c.LastOfType(protocol.MsgError)).Code
}

// setupMatch 创建房间并加入，触发开局，返回 (p1, p2)
func setupMatch(t *testing.T, h *Handler, sched *testutil.ManualScheduler) (*testutil.SimpleClient, *testutil.SimpleClient) {
	t.Helper()
	p1 := testutil.NewSimpleClient("c1")
	p2 := testutil.NewSimpleClient("c2")

	h.Handle(p1, raw(t, `{"type":"CREATE_ROOM","playerName":"Alice"}`))
	code := payloadOf[protocol.RoomCreatedPayload](t, p1.LastOfType(protocol.MsgRoomCreated)).RoomCode

	h.Handle(p2, raw(t, `{"type":"JOIN_ROOM","roomCode":"`+code+`","playerName":"Bob"}`))
	require.NotNil(t, p2.LastOfType(protocol.MsgRoomJoined))
	require.Equal(t, 1, sched.RunAll())
	return p1, p2
}

func TestHandle_CreateAndJoin(t *testing.T) {
	t.Parallel()

	h, rm, sched := newTestHandler(t)
	p1, p2 := setupMatch(t, h, sched)

	assert.Equal(t, 1, rm.RoomCount())
	assert.Equal(t, p1.GetRoom(), p2.GetRoom())

	joined := payloadOf[protocol.RoomJoinedPayload](t, p2.LastOfType(protocol.MsgRoomJoined))
	assert.Equal(t, "Alice", joined.OpponentName)
	assert.Equal(t, "p2", joined.YourID)

	// p2 先设置陷阱
	assert.NotNil(t, p2.LastOfType(protocol.MsgYourTurnSetTrap))
	assert.NotNil(t, p1.LastOfType(protocol.MsgWaitForTrap))
}

func TestHandle_JoinErrors(t *testing.T) {
	t.Parallel()

	h, _, sched := newTestHandler(t)
	p1, _ := setupMatch(t, h, sched)

	third := testutil.NewSimpleClient("c3")
	h.Handle(third, raw(t, `{"type":"JOIN_ROOM","roomCode":"`+p1.GetRoom()+`"}`))
	assert.Equal(t, protocol.ErrCodeRoomFull, errorCode(t, third))
	assert.Empty(t, third.GetRoom())

	lost := testutil.NewSimpleClient("c4")
	h.Handle(lost, raw(t, `{"type":"JOIN_ROOM","roomCode":"0000"}`))
	assert.Equal(t, protocol.ErrCodeRoomNotFound, errorCode(t, lost))
	assert.Empty(t, lost.GetRoom())
}

func TestHandle_CreateWhileInRoomLeavesFirst(t *testing.T) {
	t.Parallel()

	h, rm, sched := newTestHandler(t)
	p1, p2 := setupMatch(t, h, sched)
	oldCode := p1.GetRoom()

	h.Handle(p1, raw(t, `{"type":"CREATE_ROOM","playerName":"Alice"}`))

	assert.NotEqual(t, oldCode, p1.GetRoom())
	assert.Equal(t, 1, p2.Count(protocol.MsgOpponentDisconnected))
	assert.Equal(t, 2, rm.RoomCount(), "old room still holds p2")
}

func TestHandle_GameMessages(t *testing.T) {
	t.Parallel()

	h, _, sched := newTestHandler(t)
	p1, p2 := setupMatch(t, h, sched)

	h.Handle(p2, raw(t, `{"type":"SET_TRAP","chair":5}`))
	assert.NotNil(t, p2.LastOfType(protocol.MsgTrapSetOK))
	assert.NotNil(t, p1.LastOfType(protocol.MsgYourTurnChooseChair))

	h.Handle(p1, raw(t, `{"type":"CHOOSE_CHAIR","chair":7}`))
	reveal := payloadOf[protocol.RevealPayload](t, p1.LastOfType(protocol.MsgReveal))
	assert.Equal(t, "SAFE", reveal.Result)
	assert.Equal(t, 7, reveal.ScoreGained)
	assert.Equal(t, "p1", reveal.SitterID)
	assert.Equal(t, p1.LastOfType(protocol.MsgReveal).Payload, p2.LastOfType(protocol.MsgReveal).Payload)

	h.Handle(p1, raw(t, `{"type":"REVEAL_ACK"}`))
	assert.Equal(t, 0, sched.Pending(), "one ack is not enough")
	h.Handle(p2, raw(t, `{"type":"REVEAL_ACK"}`))
	assert.Equal(t, 1, sched.Pending())

	sched.RunAll()
	assert.NotNil(t, p1.LastOfType(protocol.MsgYourTurnSetTrap), "roles swap after the exchange")
}

func TestHandle_ErrorReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fromP1   bool
		text     string
		wantCode int
	}{
		{"sitter cannot set trap", true, `{"type":"SET_TRAP","chair":3}`, protocol.ErrCodeNotYourTurn},
		{"chair out of range", false, `{"type":"SET_TRAP","chair":13}`, protocol.ErrCodeInvalidChair},
		{"chair zero", false, `{"type":"SET_TRAP","chair":0}`, protocol.ErrCodeInvalidChair},
		{"fractional chair", false, `{"type":"SET_TRAP","chair":2.5}`, protocol.ErrCodeInvalidChair},
		{"missing chair", false, `{"type":"SET_TRAP"}`, protocol.ErrCodeInvalidChair},
		{"string chair", false, `{"type":"SET_TRAP","chair":"5"}`, protocol.ErrCodeInvalidChair},
		{"bool chair", false, `{"type":"SET_TRAP","chair":true}`, protocol.ErrCodeInvalidChair},
		{"null chair", false, `{"type":"SET_TRAP","chair":null}`, protocol.ErrCodeInvalidChair},
		{"choose before trap", true, `{"type":"CHOOSE_CHAIR","chair":3}`, protocol.ErrCodeNotYourTurn},
		{"ack before reveal", true, `{"type":"REVEAL_ACK"}`, protocol.ErrCodeWrongPhase},
		{"play again mid game", false, `{"type":"PLAY_AGAIN"}`, protocol.ErrCodeWrongPhase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _, sched := newTestHandler(t)
			p1, p2 := setupMatch(t, h, sched)
			sender, other := p2, p1
			if tt.fromP1 {
				sender, other = p1, p2
			}
			other.Reset()

			h.Handle(sender, raw(t, tt.text))

			assert.Equal(t, tt.wantCode, errorCode(t, sender))
			assert.Empty(t, other.SentMessages(), "no broadcast on rejected actions")
			assert.Equal(t, 0, sched.Pending())
		})
	}
}

func TestHandle_DropsMalformedAndUnknown(t *testing.T) {
	t.Parallel()

	h, _, sched := newTestHandler(t)
	p1, p2 := setupMatch(t, h, sched)
	p1.Reset()
	p2.Reset()

	h.Handle(p2, raw(t, `{"type":"DANCE"}`))
	h.Handle(p2, &protocol.Message{Type: protocol.MsgSetTrap, Payload: json.RawMessage(`{"chair":`)})
	h.Handle(p2, raw(t, `{"type":"SET_TRAP","chair":"five"}`))
	h.Handle(p2, raw(t, `{"type":"JOIN_ROOM","roomCode":7}`))

	assert.Empty(t, p1.SentMessages())
	assert.Empty(t, p2.SentMessages())
}

func TestHandle_NotInRoom(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)
	c := testutil.NewSimpleClient("lonely")

	h.Handle(c, raw(t, `{"type":"SET_TRAP","chair":1}`))
	assert.Equal(t, protocol.ErrCodeNotInRoom, errorCode(t, c))

	c.Reset()
	h.Handle(c, raw(t, `{"type":"PLAY_AGAIN"}`))
	assert.Equal(t, protocol.ErrCodeNotInRoom, errorCode(t, c))
}

func TestHandleDisconnect(t *testing.T) {
	t.Parallel()

	h, rm, sched := newTestHandler(t)
	p1, p2 := setupMatch(t, h, sched)

	h.HandleDisconnect(p1)
	assert.Equal(t, 1, p2.Count(protocol.MsgOpponentDisconnected))
	assert.Empty(t, p1.GetRoom())
	assert.Equal(t, 1, rm.RoomCount())

	// 重复断开不会再次通知
	h.HandleDisconnect(p1)
	assert.Equal(t, 1, p2.Count(protocol.MsgOpponentDisconnected))

	h.HandleDisconnect(p2)
	assert.Equal(t, 0, rm.RoomCount())
}

func TestHandleDisconnect_ActionsAfterOpponentLeft(t *testing.T) {
	t.Parallel()

	h, _, sched := newTestHandler(t)
	p1, p2 := setupMatch(t, h, sched)

	h.HandleDisconnect(p1)
	h.Handle(p2, raw(t, `{"type":"SET_TRAP","chair":4}`))
	assert.Equal(t, protocol.ErrCodeOpponentMissing, errorCode(t, p2))
	assert.Zero(t, p1.Count(protocol.MsgTrapSetOK))
}

func TestHandle_StaleRoomReference(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)

	// 客户端记录的房间已经不存在
	client := new(testutil.MockClient)
	client.On("GetRoom").Return("ZZZZ")
	client.On("SendMessage", mock.MatchedBy(func(msg *protocol.Message) bool {
		if msg.Type != protocol.MsgError {
			return false
		}
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		return err == nil && p.Code == protocol.ErrCodeNotInRoom
	})).Once()

	h.Handle(client, raw(t, `{"type":"REVEAL_ACK"}`))
	client.AssertExpectations(t)
}

func TestHandle_IntegralChairForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"integral float", `{"type":"SET_TRAP","chair":5.0}`},
		{"exponent", `{"type":"SET_TRAP","chair":1e1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _, sched := newTestHandler(t)
			_, p2 := setupMatch(t, h, sched)
			p2.Reset()

			h.Handle(p2, raw(t, tt.text))
			assert.Equal(t, 1, p2.Count(protocol.MsgTrapSetOK))
			assert.Zero(t, p2.Count(protocol.MsgError))
		})
	}
}

func TestHandle_BothPlayersAskToPlayAgain(t *testing.T) {
	t.Parallel()

	h, _, sched := newTestHandler(t)
	p1, p2 := setupMatch(t, h, sched)

	// p1 在第 1、3、5 个半局坐上陷阱，被电三次
	setter, sitter := p2, p1
	for _, half := range [][2]int{{4, 4}, {4, 1}, {4, 4}, {4, 2}, {4, 4}} {
		h.Handle(setter, raw(t, fmt.Sprintf(`{"type":"SET_TRAP","chair":%d}`, half[0])))
		h.Handle(sitter, raw(t, fmt.Sprintf(`{"type":"CHOOSE_CHAIR","chair":%d}`, half[1])))
		h.Handle(p1, raw(t, `{"type":"REVEAL_ACK"}`))
		h.Handle(p2, raw(t, `{"type":"REVEAL_ACK"}`))
		sched.RunAll()
		setter, sitter = sitter, setter
	}
	require.NotNil(t, p1.LastOfType(protocol.MsgGameOver))
	p1.Reset()
	p2.Reset()

	h.Handle(p1, raw(t, `{"type":"PLAY_AGAIN"}`))
	h.Handle(p2, raw(t, `{"type":"PLAY_AGAIN"}`))

	for _, c := range []*testutil.SimpleClient{p1, p2} {
		assert.Equal(t, 1, c.Count(protocol.MsgGameReset))
		assert.Zero(t, c.Count(protocol.MsgError))
	}
	assert.Equal(t, 1, sched.Pending())
}
