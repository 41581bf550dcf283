package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

func TestAssistantPermitService_Set_ClassNotFound(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	svc := service.NewAssistantPermitService(f.rooms, f.permits, f.svc)
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "missing").Return(nil, repository.ErrRoomNotFound).Once()

	// Act
	_, err := svc.Set(ctx, "missing", "{}")

	// Assert
	assert.ErrorIs(t, err, service.ErrClassNotFound)
	f.permits.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAssistantPermitService_Set_Upserts(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	svc := service.NewAssistantPermitService(f.rooms, f.permits, f.svc)
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.permits.On("Upsert", ctx, mock.MatchedBy(func(p *domain.AssistantPermit) bool {
		return p.ClassID == "c1" && p.Permit == `{"mute":true}`
	})).Return(nil).Once()
	f.permits.On("FindByClassID", ctx, "c1").Return(&domain.AssistantPermit{ClassID: "c1", Permit: `{"mute":true}`}, nil).Once()

	// Act
	permit, err := svc.Set(ctx, "c1", `{"mute":true}`)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, `{"mute":true}`, permit.Permit)
	f.assertExpectations(t)
}

func TestAssistantPermitService_Delete_RemovesAssistant(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	svc := service.NewAssistantPermitService(f.rooms, f.permits, f.svc)
	ctx := context.Background()
	bob := &domain.Member{ID: 9, ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant, Status: domain.MemberStatusNormal}
	f.permits.On("DeleteByClassID", ctx, "c1").Return(true, nil).Once()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.members.On("FindAssistant", ctx, "c1", domain.MemberStatusAll).Return(bob, nil).Once()
	f.members.On("Delete", ctx, uint(9)).Return(nil).Once()

	// Act
	err := svc.Delete(ctx, "c1")

	// Assert
	require.NoError(t, err)
	require.Len(t, f.notifier.all(), 1)
	assert.Equal(t, domain.MessageTypeExit, f.notifier.all()[0].msgType)
	f.assertExpectations(t)
}

func TestAssistantPermitService_Get_NotFound(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	svc := service.NewAssistantPermitService(f.rooms, f.permits, f.svc)
	ctx := context.Background()
	f.permits.On("FindByClassID", ctx, "c1").Return(nil, repository.ErrPermitNotFound).Once()

	// Act
	_, err := svc.Get(ctx, "c1")

	// Assert
	assert.ErrorIs(t, err, service.ErrNotFound)
}
