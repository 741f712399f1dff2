package room

import (
	"time"

	"github.com/palemoky/electric-chair/internal/server/storage"
)

// ToRoomData 将 Room 转换为可序列化的 RoomData
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.toRoomDataLocked()
}

func (r *Room) toRoomDataLocked() *storage.RoomData {
	snapshot := r.state.Snapshot()
	data := &storage.RoomData{
		Code:      r.Code,
		Phase:     string(r.state.Phase),
		Setter:    r.state.Setter.String(),
		Players:   make([]storage.PlayerData, 0, len(r.occupants)),
		State:     &snapshot,
		CreatedAt: r.CreatedAt.Unix(),
		UpdatedAt: time.Now().Unix(),
	}

	for _, o := range r.occupants {
		if o == nil {
			continue
		}
		data.Players = append(data.Players, storage.PlayerData{
			ID:   o.Client.GetID(),
			Name: o.Name,
			Seat: o.Seat.String(),
		})
	}

	return data
}
