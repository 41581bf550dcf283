// Package mocks 提供 provider 接口的 testify mock 实现
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

var (
	_ provider.GroupCreator              = (*GroupCreator)(nil)
	_ provider.NotificationGateway       = (*NotificationGateway)(nil)
	_ provider.TokenIssuer               = (*TokenIssuer)(nil)
	_ provider.RtcLinkProvider           = (*RtcLinkProvider)(nil)
	_ provider.VodProvider               = (*VodProvider)(nil)
	_ provider.GroupMetricsProvider      = (*GroupMetricsProvider)(nil)
	_ provider.WhiteboardProvider        = (*WhiteboardProvider)(nil)
	_ provider.CallbackSignatureVerifier = (*CallbackSignatureVerifier)(nil)
	_ provider.ChatroomModerator         = (*ChatroomModerator)(nil)
)

type GroupCreator struct {
	mock.Mock
}

func (m *GroupCreator) CreateGroup(ctx context.Context, preferredID, creatorID string) (string, error) {
	args := m.Called(ctx, preferredID, creatorID)
	return args.String(0), args.Error(1)
}

type NotificationGateway struct {
	mock.Mock
}

func (m *NotificationGateway) SendToGroup(ctx context.Context, groupID string, msgType domain.MessageType, member *dto.ClassMember) error {
	args := m.Called(ctx, groupID, msgType, member)
	return args.Error(0)
}

type TokenIssuer struct {
	mock.Mock
}

func (m *TokenIssuer) IssueToken(ctx context.Context, req provider.TokenRequest) (interface{}, error) {
	args := m.Called(ctx, req)
	return args.Get(0), args.Error(1)
}

type RtcLinkProvider struct {
	mock.Mock
}

func (m *RtcLinkProvider) Link(channelID, userID, teacherID string) *dto.LinkInfo {
	args := m.Called(channelID, userID, teacherID)
	link, _ := args.Get(0).(*dto.LinkInfo)
	return link
}

func (m *RtcLinkProvider) AuthToken(channelID, userID string, timestamp int64) string {
	args := m.Called(channelID, userID, timestamp)
	return args.String(0)
}

func (m *RtcLinkProvider) CameraStreamName(channelID, teacherID string) string {
	args := m.Called(channelID, teacherID)
	return args.String(0)
}

type VodProvider struct {
	mock.Mock
}

func (m *VodProvider) SearchByTitle(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

func (m *VodProvider) PlayInfo(ctx context.Context, mediaID string) (*dto.VodInfo, error) {
	args := m.Called(ctx, mediaID)
	info, _ := args.Get(0).(*dto.VodInfo)
	return info, args.Error(1)
}

type GroupMetricsProvider struct {
	mock.Mock
}

func (m *GroupMetricsProvider) Metrics(ctx context.Context, groupID string) (*dto.Metrics, error) {
	args := m.Called(ctx, groupID)
	metrics, _ := args.Get(0).(*dto.Metrics)
	return metrics, args.Error(1)
}

func (m *GroupMetricsProvider) UserMuteStatus(ctx context.Context, groupID, userID string) (*dto.UserStatus, error) {
	args := m.Called(ctx, groupID, userID)
	status, _ := args.Get(0).(*dto.UserStatus)
	return status, args.Error(1)
}

type WhiteboardProvider struct {
	mock.Mock
}

func (m *WhiteboardProvider) AuthInfo() *dto.BoardAuth {
	args := m.Called()
	auth, _ := args.Get(0).(*dto.BoardAuth)
	return auth
}

func (m *WhiteboardProvider) Create(ctx context.Context, boardID, title string) (*dto.BoardCreateResult, error) {
	args := m.Called(ctx, boardID, title)
	result, _ := args.Get(0).(*dto.BoardCreateResult)
	return result, args.Error(1)
}

func (m *WhiteboardProvider) Delete(ctx context.Context, cid string) (int, error) {
	args := m.Called(ctx, cid)
	return args.Int(0), args.Error(1)
}

type CallbackSignatureVerifier struct {
	mock.Mock
}

func (m *CallbackSignatureVerifier) Verify(signature, timestamp string) bool {
	args := m.Called(signature, timestamp)
	return args.Bool(0)
}

type ChatroomModerator struct {
	mock.Mock
}

func (m *ChatroomModerator) MuteUser(ctx context.Context, chatroomID, userID string, minutes int) error {
	args := m.Called(ctx, chatroomID, userID, minutes)
	return args.Error(0)
}

func (m *ChatroomModerator) CancelMuteUser(ctx context.Context, chatroomID, userID string) error {
	args := m.Called(ctx, chatroomID, userID)
	return args.Error(0)
}

func (m *ChatroomModerator) MuteChatroom(ctx context.Context, chatroomID string) error {
	args := m.Called(ctx, chatroomID)
	return args.Error(0)
}

func (m *ChatroomModerator) CancelMuteChatroom(ctx context.Context, chatroomID string) error {
	args := m.Called(ctx, chatroomID)
	return args.Error(0)
}

func (m *ChatroomModerator) IsChatroomMuted(ctx context.Context, chatroomID string) (bool, error) {
	args := m.Called(ctx, chatroomID)
	return args.Bool(0), args.Error(1)
}
