package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/palemoky/electric-chair/internal/server/storage"
)

const (
	qrSize                  = 320
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// handleIndex 落地页，只响应 / 和 /index.html
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}

	page, err := os.ReadFile(filepath.Join(s.config.Server.PublicDir, "index.html"))
	if err != nil {
		log.Printf("读取落地页失败: %v", err)
		http.Error(w, "Error loading index.html", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleQR 当前访问地址的二维码（PNG），方便手机扫码加入
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	png, err := qrcode.Encode(scheme+"://"+r.Host+"/", qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// parseLimit 读取 limit 参数，缺省为 defaultLeaderboardLimit，上限 maxLeaderboardLimit
func parseLimit(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLeaderboardLimit, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return min(n, maxLeaderboardLimit), true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// handleLeaderboard 胜场排行榜（JSON），未启用 Redis 时为空列表
// 带 player 参数时只返回该名字的胜场
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if name := r.URL.Query().Get("player"); name != "" {
		wins, err := s.leaderboard.PlayerWins(ctx, name)
		if err != nil {
			log.Printf("读取 %s 的胜场失败: %v", name, err)
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, storage.LeaderboardEntry{PlayerName: name, Wins: wins})
		return
	}

	limit, ok := parseLimit(r)
	if !ok {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	entries, err := s.leaderboard.TopWinners(ctx, limit)
	if err != nil {
		log.Printf("读取排行榜失败: %v", err)
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []storage.LeaderboardEntry{}
	}
	writeJSON(w, entries)
}

// handleRecentMatches 最近结束的对局（JSON），最新的在前
func (s *Server) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	matches, err := s.leaderboard.RecentMatches(ctx, limit)
	if err != nil {
		log.Printf("读取最近对局失败: %v", err)
		http.Error(w, "matches unavailable", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []storage.MatchResult{}
	}
	writeJSON(w, matches)
}
