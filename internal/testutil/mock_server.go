//go:build !production

package testutil

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}

// ManualScheduler 手动触发的定时器，测试中代替 time.AfterFunc
type ManualScheduler struct {
	mu      sync.Mutex
	pending []ScheduledTask
}

// ScheduledTask 一个待执行的延迟任务
type ScheduledTask struct {
	Delay time.Duration
	Fn    func()
}

// AfterFunc 记录任务，不会立即执行
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, ScheduledTask{Delay: d, Fn: f})
}

// Pending 待执行任务数
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Delays 待执行任务的延迟，按登记顺序
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	delays := make([]time.Duration, len(s.pending))
	for i, t := range s.pending {
		delays[i] = t.Delay
	}
	return delays
}

// Take 取出所有待执行任务但不执行，用于模拟过期定时器
func (s *ManualScheduler) Take() []ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.pending
	s.pending = nil
	return tasks
}

// RunAll 依次执行当前所有待执行任务（执行中新登记的任务留到下次）
func (s *ManualScheduler) RunAll() int {
	tasks := s.Take()
	for _, t := range tasks {
		t.Fn()
	}
	return len(tasks)
}
