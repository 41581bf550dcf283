package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// BanRepository 是 repository.BanRepository 的 mock
type BanRepository struct {
	mock.Mock
}

var _ repository.BanRepository = (*BanRepository)(nil)

func (m *BanRepository) FindByClassAndUser(ctx context.Context, classID, userID string) (*domain.BanEntry, error) {
	args := m.Called(ctx, classID, userID)
	entry, _ := args.Get(0).(*domain.BanEntry)
	return entry, args.Error(1)
}

func (m *BanRepository) Save(ctx context.Context, entry *domain.BanEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// AssistantPermitRepository 是 repository.AssistantPermitRepository 的 mock
type AssistantPermitRepository struct {
	mock.Mock
}

var _ repository.AssistantPermitRepository = (*AssistantPermitRepository)(nil)

func (m *AssistantPermitRepository) FindByClassID(ctx context.Context, classID string) (*domain.AssistantPermit, error) {
	args := m.Called(ctx, classID)
	permit, _ := args.Get(0).(*domain.AssistantPermit)
	return permit, args.Error(1)
}

func (m *AssistantPermitRepository) Upsert(ctx context.Context, permit *domain.AssistantPermit) error {
	args := m.Called(ctx, permit)
	return args.Error(0)
}

func (m *AssistantPermitRepository) DeleteByClassID(ctx context.Context, classID string) (bool, error) {
	args := m.Called(ctx, classID)
	return args.Bool(0), args.Error(1)
}
