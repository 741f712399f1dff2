package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/electric-chair/internal/config"
	"github.com/palemoky/electric-chair/internal/game/room"
	"github.com/palemoky/electric-chair/internal/metrics"
	"github.com/palemoky/electric-chair/internal/server/handler"
	"github.com/palemoky/electric-chair/internal/server/storage"
)

// leaderboardSource 排行榜与对局记录的数据来源
type leaderboardSource interface {
	TopWinners(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
	PlayerWins(ctx context.Context, name string) (int, error)
	RecentMatches(ctx context.Context, limit int) ([]storage.MatchResult, error)
}

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redisStore  *storage.RedisStore // 未启用 Redis 时为 nil
	store       room.Store
	leaderboard leaderboardSource
	roomManager *room.RoomManager
	handler     *handler.Handler
	metrics     *metrics.Metrics
	clients     map[string]*Client
	clientsMu   sync.RWMutex

	upgrader      websocket.Upgrader
	originChecker *OriginChecker

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	httpServer *http.Server
	startedAt  time.Time
	done       chan struct{}
	closeOnce  sync.Once
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{
		config:         cfg,
		store:          storage.NopStore{},
		leaderboard:    storage.NopStore{},
		metrics:        metrics.New(),
		clients:        make(map[string]*Client),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		startedAt:      time.Now(),
		done:           make(chan struct{}),
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// 测试 Redis 连接
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}

		redisStore := storage.NewRedisStore(rdb)
		s.redisStore = redisStore
		s.store = redisStore
		s.leaderboard = redisStore
		clearStaleRooms(ctx, redisStore)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	// 初始化房间管理器
	s.roomManager = room.NewRoomManager(room.Options{
		Store:         s.store,
		Recorder:      s.metrics,
		StartDelay:    cfg.Game.StartDelayDuration(),
		TurnDelay:     cfg.Game.TurnDelayDuration(),
		MaxNameLength: cfg.Game.MaxNameLength,
	})

	// 初始化消息处理器
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		RoomManager: s.roomManager,
	})

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("🔒 安全配置: 消息限制=%d/s (突发 %d), 最大连接数=%d, Redis=%v",
		cfg.Security.MessageLimit.MaxPerSecond, cfg.Security.MessageLimit.Burst, cfg.Server.MaxConnections, cfg.Redis.Enabled)

	return s, nil
}

// clearStaleRooms 清理上次运行遗留的房间快照（连接不会跨进程保留），返回清理数量
func clearStaleRooms(ctx context.Context, rs *storage.RedisStore) int {
	codes, err := rs.GetAllRoomCodes(ctx)
	if err != nil {
		log.Printf("读取遗留房间失败: %v", err)
		return 0
	}
	for _, code := range codes {
		data, err := rs.LoadRoom(ctx, code)
		switch {
		case err != nil:
			log.Printf("遗留房间 %s 快照损坏: %v", code, err)
		case data != nil:
			log.Printf("遗留房间 %s: 阶段=%s, 玩家=%d", code, data.Phase, len(data.Players))
		}
		_ = rs.DeleteRoom(ctx, code)
	}
	if len(codes) > 0 {
		log.Printf("🧹 已清理 %d 个遗留房间快照", len(codes))
	}
	return len(codes)
}

// Handler 返回服务器的 HTTP 路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/qr", s.handleQR)
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/matches", s.handleRecentMatches)
	if s.config.Metrics.Enabled {
		mux.Handle(s.config.Metrics.Path, s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	// 启动监控 goroutine
	go s.monitorStats()

	printBanner(s.config.Server.Port)
	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", s.httpServer.Addr, runtime.NumCPU())

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RoomManager 返回房间管理器
func (s *Server) RoomManager() *room.RoomManager {
	return s.roomManager
}
