package server

// GetOnlineCount 获取在线连接数（按需调用）
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// closeAllClients 关闭所有客户端连接，读协程随之退出并完成离开房间
func (s *Server) closeAllClients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		client.Close()
	}
	return len(s.clients)
}
