package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// MemberRepository 是 repository.MemberRepository 的 mock
type MemberRepository struct {
	mock.Mock
}

var _ repository.MemberRepository = (*MemberRepository)(nil)

func (m *MemberRepository) FindByClassAndUser(ctx context.Context, classID, userID string) (*domain.Member, error) {
	args := m.Called(ctx, classID, userID)
	member, _ := args.Get(0).(*domain.Member)
	return member, args.Error(1)
}

func (m *MemberRepository) FindAssistant(ctx context.Context, classID string, status domain.MemberStatus) (*domain.Member, error) {
	args := m.Called(ctx, classID, status)
	member, _ := args.Get(0).(*domain.Member)
	return member, args.Error(1)
}

func (m *MemberRepository) Save(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MemberRepository) UpdateStatus(ctx context.Context, classID, userID string, status domain.MemberStatus) error {
	args := m.Called(ctx, classID, userID, status)
	return args.Error(0)
}

func (m *MemberRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MemberRepository) Page(ctx context.Context, query repository.MemberQuery) ([]domain.Member, int64, error) {
	args := m.Called(ctx, query)
	members, _ := args.Get(0).([]domain.Member)
	return members, args.Get(1).(int64), args.Error(2)
}
