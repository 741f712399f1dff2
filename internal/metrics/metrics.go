// Package metrics 提供服务器运行指标（Prometheus）
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "electric_chair"

// Metrics 服务器指标集合
// 使用独立的 Registry，多个实例（例如测试中）互不冲突。
// nil *Metrics 的所有方法均为空操作。
type Metrics struct {
	registry *prometheus.Registry

	onlinePlayers   prometheus.Gauge
	activeRooms     prometheus.Gauge
	messages        *prometheus.CounterVec
	messageLatency  prometheus.Histogram
	matchesFinished *prometheus.CounterVec
}

// New 创建并注册全部指标
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		onlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of open WebSocket connections",
		}),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of rooms currently registered",
		}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Total number of client messages received, by type",
		}, []string{"type"}),
		messageLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_latency_seconds",
			Help:      "Client message handling latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		matchesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Total number of finished matches, by reason",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.onlinePlayers,
		m.activeRooms,
		m.messages,
		m.messageLatency,
		m.matchesFinished,
	)
	return m
}

// ConnectionOpened 连接建立
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.onlinePlayers.Inc()
}

// ConnectionClosed 连接断开
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.onlinePlayers.Dec()
}

// UnknownMessageType 无法识别的消息类型共用的标签值
const UnknownMessageType = "unknown"

// MessageReceived 记录一条已处理的客户端消息
// msgType 必须来自有限集合，调用方负责把未知类型归为 UnknownMessageType
func (m *Metrics) MessageReceived(msgType string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(msgType).Inc()
	m.messageLatency.Observe(elapsed.Seconds())
}

// RoomsChanged 房间数量变化
func (m *Metrics) RoomsChanged(count int) {
	if m == nil {
		return
	}
	m.activeRooms.Set(float64(count))
}

// MatchFinished 一局结束
func (m *Metrics) MatchFinished(reason string) {
	if m == nil {
		return
	}
	m.matchesFinished.WithLabelValues(reason).Inc()
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 返回 /metrics 的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
