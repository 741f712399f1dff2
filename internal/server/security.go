package server

import (
	"net"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/palemoky/electric-chair/internal/config"
)

// --- 来源验证 ---

// OriginChecker 来源验证器
type OriginChecker struct {
	allowedOrigins map[string]bool
	allowAll       bool
}

// NewOriginChecker 创建来源验证器，列表为空或包含 "*" 时允许所有来源
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{
		allowedOrigins: make(map[string]bool),
		allowAll:       len(origins) == 0,
	}

	for _, origin := range origins {
		if origin == "*" {
			oc.allowAll = true
			return oc
		}
		oc.allowedOrigins[strings.ToLower(strings.TrimRight(origin, "/"))] = true
	}

	return oc
}

// Check 检查来源是否允许
func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		// 没有 Origin 头，可能是同源请求或终端客户端
		return true
	}

	return oc.allowedOrigins[strings.ToLower(origin)]
}

// --- 消息速率限制 ---

// newMessageLimiter 单个连接的入站消息限速（令牌桶）
func newMessageLimiter(cfg config.MessageLimitConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.MaxPerSecond), cfg.Burst)
}

// --- 辅助函数 ---

// GetClientIP 获取客户端真实 IP
func GetClientIP(r *http.Request) string {
	// 检查代理头
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// 取第一个 IP（最原始的客户端）
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
