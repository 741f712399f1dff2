package server

import (
	"context"
	"log"
	"runtime"
	"time"
)

// statsInterval 监控日志间隔
const statsInterval = 30 * time.Second

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			log.Printf("📊 [监控] 运行: %s | 在线: %d | 房间: %d | 对局中: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
				time.Since(s.startedAt).Truncate(time.Second),
				s.GetOnlineCount(),
				s.roomManager.RoomCount(),
				s.roomManager.ActiveMatchCount(),
				runtime.NumGoroutine(),
				len(s.semaphore),
				s.maxConnections,
				float64(m.Alloc)/1024/1024)
		}
	}
}

// Shutdown 优雅关闭服务器：停止接受新连接，关闭所有客户端，最后关闭 Redis
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}

		// 被劫持的 WebSocket 连接不受 http.Server.Shutdown 管理
		if n := s.closeAllClients(); n > 0 {
			log.Printf("🔌 已关闭 %d 个客户端连接", n)
		}

		if s.redisStore != nil {
			_ = s.redisStore.Close()
		}

		log.Println("服务器已关闭")
	})
	return err
}
