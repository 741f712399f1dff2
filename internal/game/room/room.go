package room

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/electric-chair/internal/game"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/server/storage"
	"github.com/palemoky/electric-chair/internal/types"
)

// Occupant 房间中的玩家
type Occupant struct {
	Client types.ClientInterface
	Seat   game.Seat
	Name   string
}

// Room 游戏房间
type Room struct {
	Code      string    // 房间号
	CreatedAt time.Time // 创建时间

	occupants [2]*Occupant // 按座位存放，离开后置空
	joined    bool         // Seat2 是否被分配过，座位不会重新分配
	state     *game.State
	epoch     uint64 // 重置或有人离开时递增，过期的定时任务据此失效

	mu sync.RWMutex
}

// Store 房间快照与对局结果的持久化
type Store interface {
	SaveRoom(ctx context.Context, roomCode string, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, roomCode string) error
	RecordMatch(ctx context.Context, result *storage.MatchResult) error
}

// Scheduler 延迟任务调度
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// Recorder 房间相关的监控指标
type Recorder interface {
	RoomsChanged(count int)
	MatchFinished(reason string)
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

type nopRecorder struct{}

func (nopRecorder) RoomsChanged(int)     {}
func (nopRecorder) MatchFinished(string) {}

func newRoom(code string) *Room {
	return &Room{
		Code:      code,
		CreatedAt: time.Now(),
		state:     game.NewState(),
	}
}

// Phase 当前对局阶段
func (r *Room) Phase() game.Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Phase
}

// Snapshot 当前公共状态
func (r *Room) Snapshot() protocol.GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Snapshot()
}

// Occupants 当前在房间中的玩家（按座位顺序）
func (r *Room) Occupants() []Occupant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Occupant, 0, len(r.occupants))
	for _, o := range r.occupants {
		if o != nil {
			list = append(list, *o)
		}
	}
	return list
}

// seatOf 查找客户端所在座位
func (r *Room) seatOf(client types.ClientInterface) (game.Seat, bool) {
	for _, seat := range game.Seats {
		if o := r.occupants[seat]; o != nil && o.Client.GetID() == client.GetID() {
			return seat, true
		}
	}
	return 0, false
}

// full 双方都在房间中
func (r *Room) full() bool {
	return r.occupants[game.Seat1] != nil && r.occupants[game.Seat2] != nil
}

func (r *Room) empty() bool {
	return r.occupants[game.Seat1] == nil && r.occupants[game.Seat2] == nil
}

func (r *Room) nameOf(seat game.Seat) string {
	if o := r.occupants[seat]; o != nil {
		return o.Name
	}
	return ""
}

// sendTo 发送给指定座位（不在房间时忽略）
func (r *Room) sendTo(seat game.Seat, msg *protocol.Message) {
	if o := r.occupants[seat]; o != nil {
		o.Client.SendMessage(msg)
	}
}

// broadcast 广播给房间内所有玩家
func (r *Room) broadcast(msg *protocol.Message) {
	for _, seat := range game.Seats {
		r.sendTo(seat, msg)
	}
}
