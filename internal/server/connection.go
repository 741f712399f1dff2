package server

import (
	"context"
	"log"
	"net/http"
	"time"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 获取真实客户端IP
	clientIP := GetClientIP(r)

	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	// 来源验证
	if !s.originChecker.Check(r) {
		<-s.semaphore
		log.Printf("🚫 来源验证失败: %s (IP: %s)", r.Header.Get("Origin"), clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	// 创建客户端
	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)

	log.Printf("✅ 连接 %s 已建立 (IP: %s)", client.ID, clientIP)

	// 启动客户端读写协程，信号量在连接结束时释放
	go func() {
		defer func() { <-s.semaphore }()
		client.ReadPump()
	}()
	go client.WritePump()
}

// handleHealth 健康检查接口，启用 Redis 时同时检查 Redis
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.redisStore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.redisStore.Ping(ctx); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
	s.metrics.ConnectionOpened()
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		s.metrics.ConnectionClosed()
		log.Printf("❌ 连接 %s 已断开", client.ID)
	}
}
