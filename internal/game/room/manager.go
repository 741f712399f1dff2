package room

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/palemoky/electric-chair/internal/apperrors"
	"github.com/palemoky/electric-chair/internal/game"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
	"github.com/palemoky/electric-chair/internal/server/storage"
	"github.com/palemoky/electric-chair/internal/types"
)

// 默认配置
const (
	DefaultStartDelay    = 1000 * time.Millisecond // 加入或重置后到开局的延迟
	DefaultTurnDelay     = 1500 * time.Millisecond // 揭晓后到下一回合的延迟
	DefaultMaxNameLength = 10
)

// Options 房间管理器配置，零值字段使用默认值
type Options struct {
	Store         Store
	Scheduler     Scheduler
	Recorder      Recorder
	StartDelay    time.Duration
	TurnDelay     time.Duration
	MaxNameLength int
}

// RoomManager 房间管理器
// 锁顺序固定为 rm.mu → room.mu
type RoomManager struct {
	store         Store
	scheduler     Scheduler
	recorder      Recorder
	startDelay    time.Duration
	turnDelay     time.Duration
	maxNameLength int

	rooms map[string]*Room
	mu    sync.RWMutex

	// 快照写入按序号生效：同一房间号上晚到的旧写入直接丢弃
	persistSeq atomic.Uint64
	persisted  map[string]uint64
	persistMu  sync.Mutex
}

// NewRoomManager 创建房间管理器
func NewRoomManager(opts Options) *RoomManager {
	rm := &RoomManager{
		store:         opts.Store,
		scheduler:     opts.Scheduler,
		recorder:      opts.Recorder,
		startDelay:    opts.StartDelay,
		turnDelay:     opts.TurnDelay,
		maxNameLength: opts.MaxNameLength,
		rooms:         make(map[string]*Room),
		persisted:     make(map[string]uint64),
	}
	if rm.store == nil {
		rm.store = storage.NopStore{}
	}
	if rm.scheduler == nil {
		rm.scheduler = timeScheduler{}
	}
	if rm.recorder == nil {
		rm.recorder = nopRecorder{}
	}
	if rm.startDelay <= 0 {
		rm.startDelay = DefaultStartDelay
	}
	if rm.turnDelay <= 0 {
		rm.turnDelay = DefaultTurnDelay
	}
	if rm.maxNameLength <= 0 {
		rm.maxNameLength = DefaultMaxNameLength
	}
	return rm
}

// CreateRoom 创建房间，创建者坐 Seat1
func (rm *RoomManager) CreateRoom(client types.ClientInterface, name string) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code := rm.generateRoomCode()
	room := newRoom(code)

	room.mu.Lock()
	defer room.mu.Unlock()

	room.occupants[game.Seat1] = &Occupant{
		Client: client,
		Seat:   game.Seat1,
		Name:   rm.playerName(name, game.Seat1),
	}
	client.SetRoom(code)
	rm.rooms[code] = room

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: code,
		YourID:   game.Seat1.String(),
	}))

	rm.persistLocked(room)
	rm.recorder.RoomsChanged(len(rm.rooms))

	log.Printf("🏠 房间 %s 已创建，玩家 %s (%s)", code, room.nameOf(game.Seat1), client.GetID())

	return room, nil
}

// JoinRoom 加入房间，加入者坐 Seat2，并在短暂延迟后开局
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code, name string) (*Room, game.Seat, error) {
	code = NormalizeCode(code)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[code]
	if !exists {
		return nil, 0, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.joined || room.occupants[game.Seat2] != nil {
		return nil, 0, apperrors.ErrRoomFull
	}

	occupant := &Occupant{
		Client: client,
		Seat:   game.Seat2,
		Name:   rm.playerName(name, game.Seat2),
	}
	room.occupants[game.Seat2] = occupant
	room.joined = true
	client.SetRoom(code)

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode:     code,
		YourID:       game.Seat2.String(),
		OpponentName: room.nameOf(game.Seat1),
	}))
	room.sendTo(game.Seat1, codec.MustNewMessage(protocol.MsgOpponentJoined, protocol.OpponentJoinedPayload{
		OpponentName: occupant.Name,
	}))

	log.Printf("👤 玩家 %s (%s) 加入房间 %s", occupant.Name, client.GetID(), code)

	rm.persistLocked(room)
	rm.scheduleTrapPhaseLocked(room, rm.startDelay)

	return room, game.Seat2, nil
}

// RemoveOccupant 将客户端移出所在房间（可重复调用）
// 对手仍在时向其发送一次 OPPONENT_DISCONNECTED 并返回对手；房间空了则删除
func (rm *RoomManager) RemoveOccupant(client types.ClientInterface) (Occupant, bool) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		return Occupant{}, false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[roomCode]
	if !exists {
		client.SetRoom("")
		return Occupant{}, false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	seat, ok := room.seatOf(client)
	if !ok {
		client.SetRoom("")
		return Occupant{}, false
	}

	name := room.nameOf(seat)
	room.occupants[seat] = nil
	room.epoch++
	client.SetRoom("")

	log.Printf("👋 玩家 %s (%s) 离开房间 %s (座位 %s)", name, client.GetID(), roomCode, seat)

	if room.empty() {
		delete(rm.rooms, roomCode)
		rm.persistAsync(roomCode, nil)
		rm.recorder.RoomsChanged(len(rm.rooms))
		log.Printf("🏠 房间 %s 已解散", roomCode)
		return Occupant{}, false
	}

	opponent := room.occupants[seat.Other()]
	opponent.Client.SendMessage(codec.MustNewMessage(protocol.MsgOpponentDisconnected, nil))
	rm.persistLocked(room)

	return *opponent, true
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[NormalizeCode(code)]
}

// Resolve 通过客户端记录的房间号找到房间
func (rm *RoomManager) Resolve(client types.ClientInterface) *Room {
	code := client.GetRoom()
	if code == "" {
		return nil
	}
	return rm.GetRoom(code)
}

// RoomCount 当前房间数
func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// ActiveMatchCount 正在对局中的房间数（双方都在且未结束）
func (rm *RoomManager) ActiveMatchCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		room.mu.RLock()
		switch room.state.Phase {
		case game.PhaseSetTrap, game.PhaseChooseChair, game.PhaseReveal:
			if room.full() {
				count++
			}
		}
		room.mu.RUnlock()
	}
	return count
}

// isLive 房间是否仍在注册表中（同号的新房间不算）
func (rm *RoomManager) isLive(room *Room) bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[room.Code] == room
}

// playerName 截断过长的名字，空名字使用默认值
func (rm *RoomManager) playerName(name string, seat game.Seat) string {
	name = strings.TrimSpace(name)
	if name == "" {
		if seat == game.Seat1 {
			return "Player 1"
		}
		return "Player 2"
	}
	if utf8.RuneCountInString(name) > rm.maxNameLength {
		name = string([]rune(name)[:rm.maxNameLength])
	}
	return name
}

// persistLocked 异步保存房间快照，调用方需持有 room.mu
func (rm *RoomManager) persistLocked(room *Room) {
	rm.persistAsync(room.Code, room.toRoomDataLocked())
}

// persistAsync 异步写入快照，data 为 nil 表示删除
// 序号在调用方持锁时分配，执行时比已生效的序号旧就跳过，保证删除之后不会再写回旧快照
func (rm *RoomManager) persistAsync(code string, data *storage.RoomData) {
	seq := rm.persistSeq.Add(1)
	go func() {
		rm.persistMu.Lock()
		defer rm.persistMu.Unlock()

		if seq <= rm.persisted[code] {
			return
		}
		rm.persisted[code] = seq

		ctx := context.Background()
		if data == nil {
			_ = rm.store.DeleteRoom(ctx, code)
			return
		}
		_ = rm.store.SaveRoom(ctx, code, data)
	}()
}
