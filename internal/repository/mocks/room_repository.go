// Package mocks 提供 repository 接口的 testify mock 实现
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// RoomRepository 是 repository.RoomRepository 的 mock
type RoomRepository struct {
	mock.Mock
}

var _ repository.RoomRepository = (*RoomRepository)(nil)

func (m *RoomRepository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*domain.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) FindByMeetingID(ctx context.Context, meetingID string) (*domain.Room, error) {
	args := m.Called(ctx, meetingID)
	room, _ := args.Get(0).(*domain.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

func (m *RoomRepository) UpdateStatusIf(ctx context.Context, id string, from []domain.RoomStatus, to domain.RoomStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, at)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) UpdateInfo(ctx context.Context, id string, update repository.RoomInfoUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *RoomRepository) UpdateMeetingInfo(ctx context.Context, id string, meetingInfo string) error {
	args := m.Called(ctx, id, meetingInfo)
	return args.Error(0)
}

func (m *RoomRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RoomRepository) Page(ctx context.Context, pageNum, pageSize int) ([]domain.Room, int64, error) {
	args := m.Called(ctx, pageNum, pageSize)
	rooms, _ := args.Get(0).([]domain.Room)
	return rooms, args.Get(1).(int64), args.Error(2)
}
