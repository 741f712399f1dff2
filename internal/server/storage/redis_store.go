package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/electric-chair/internal/protocol"
)

const (
	// Redis key 前缀
	roomKeyPrefix = "room:"

	// 房间数据过期时间
	roomExpiration = 2 * time.Hour
)

// RoomData 房间快照（用于 Redis 序列化，只做镜像，不会用来恢复对局）
type RoomData struct {
	Code      string              `json:"code"`
	Phase     string              `json:"phase"`
	Setter    string              `json:"setter"`
	Players   []PlayerData        `json:"players"`
	State     *protocol.GameState `json:"state,omitempty"`
	CreatedAt int64               `json:"created_at"`
	UpdatedAt int64               `json:"updated_at"`
}

// PlayerData 玩家数据
type PlayerData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat string `json:"seat"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 房间存储 ---

// SaveRoom 保存房间到 Redis
func (rs *RedisStore) SaveRoom(ctx context.Context, roomCode string, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	key := roomKeyPrefix + roomCode
	return rs.client.Set(ctx, key, jsonData, roomExpiration).Err()
}

// LoadRoom 从 Redis 加载房间快照，不存在时返回 nil
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	key := roomKeyPrefix + code
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}

	return &roomData, nil
}

// DeleteRoom 从 Redis 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	key := roomKeyPrefix + code
	return rs.client.Del(ctx, key).Err()
}

// GetAllRoomCodes 获取所有房间号
func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(keys))
	for i, key := range keys {
		codes[i] = key[len(roomKeyPrefix):]
	}
	return codes, nil
}

// Ping 检查连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// Close 关闭底层连接
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// NopStore Redis 未启用时使用，所有操作都直接成功
type NopStore struct{}

func (NopStore) SaveRoom(context.Context, string, *RoomData) error { return nil }
func (NopStore) DeleteRoom(context.Context, string) error          { return nil }
func (NopStore) RecordMatch(context.Context, *MatchResult) error   { return nil }
func (NopStore) TopWinners(context.Context, int) ([]LeaderboardEntry, error) {
	return []LeaderboardEntry{}, nil
}
func (NopStore) RecentMatches(context.Context, int) ([]MatchResult, error) {
	return []MatchResult{}, nil
}
func (NopStore) PlayerWins(context.Context, string) (int, error) { return 0, nil }
