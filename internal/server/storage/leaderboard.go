package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	recentMatchesKey = "matches:recent"
	leaderboardKey   = "leaderboard:wins"

	// 最近对局保留条数
	recentMatchesLimit = 100
)

// MatchResult 一局结束后的记录
type MatchResult struct {
	RoomCode   string `json:"room_code"`
	WinnerID   string `json:"winner_id"` // p1 / p2 / draw
	WinnerName string `json:"winner_name"`
	Reason     string `json:"reason"`
	P1Name     string `json:"p1_name"`
	P2Name     string `json:"p2_name"`
	P1Score    int    `json:"p1_score"`
	P2Score    int    `json:"p2_score"`
	FinishedAt int64  `json:"finished_at"`
}

// IsDraw 是否平局
func (m *MatchResult) IsDraw() bool {
	return m.WinnerID == "draw"
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
}

// RecordMatch 记录对局结果：写入最近对局列表，胜者胜场 +1
func (rs *RedisStore) RecordMatch(ctx context.Context, result *MatchResult) error {
	if result == nil {
		return nil
	}
	if result.FinishedAt == 0 {
		result.FinishedAt = time.Now().Unix()
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("序列化对局结果失败: %w", err)
	}

	pipe := rs.client.TxPipeline()
	pipe.LPush(ctx, recentMatchesKey, data)
	pipe.LTrim(ctx, recentMatchesKey, 0, recentMatchesLimit-1)
	if !result.IsDraw() && result.WinnerName != "" {
		pipe.ZIncrBy(ctx, leaderboardKey, 1, result.WinnerName)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// RecentMatches 最近的对局，最新的在前
func (rs *RedisStore) RecentMatches(ctx context.Context, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		return []MatchResult{}, nil
	}
	items, err := rs.client.LRange(ctx, recentMatchesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]MatchResult, 0, len(items))
	for _, item := range items {
		var m MatchResult
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// TopWinners 按胜场获取排行榜
func (rs *RedisStore) TopWinners(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return []LeaderboardEntry{}, nil
	}
	results, err := rs.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		name, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			PlayerName: name,
			Wins:       int(z.Score),
		})
	}
	return entries, nil
}

// PlayerWins 查询某个名字的胜场
func (rs *RedisStore) PlayerWins(ctx context.Context, name string) (int, error) {
	score, err := rs.client.ZScore(ctx, leaderboardKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return int(score), nil
}
