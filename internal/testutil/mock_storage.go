//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/electric-chair/internal/server/storage"
)

// MockStore 房间存储 mock，实现 room.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveRoom(ctx context.Context, roomCode string, data *storage.RoomData) error {
	args := m.Called(ctx, roomCode, data)
	return args.Error(0)
}

func (m *MockStore) DeleteRoom(ctx context.Context, roomCode string) error {
	args := m.Called(ctx, roomCode)
	return args.Error(0)
}

func (m *MockStore) RecordMatch(ctx context.Context, result *storage.MatchResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// MockRecorder 监控指标 mock，实现 room.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RoomsChanged(count int) {
	m.Called(count)
}

func (m *MockRecorder) MatchFinished(reason string) {
	m.Called(reason)
}
