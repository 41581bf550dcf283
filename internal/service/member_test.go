package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository/mocks"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

// --- 测试辅助 ---

type notification struct {
	classID  string
	channels []domain.MessagingChannel
	msgType  domain.MessageType
	member   dto.ClassMember
}

// recordingNotifier 记录所有投递请求
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *recordingNotifier) Notify(_ context.Context, room *domain.Room, channels []domain.MessagingChannel, msgType domain.MessageType, member *dto.ClassMember) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{classID: room.ID, channels: channels, msgType: msgType, member: *member})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.calls...)
}

type memberFixture struct {
	rooms    *mocks.RoomRepository
	members  *mocks.MemberRepository
	bans     *mocks.BanRepository
	permits  *mocks.AssistantPermitRepository
	locks    *mocks.MemoryLock
	notifier *recordingNotifier
	svc      *service.MemberService
}

func newMemberFixture() *memberFixture {
	f := &memberFixture{
		rooms:    new(mocks.RoomRepository),
		members:  new(mocks.MemberRepository),
		bans:     new(mocks.BanRepository),
		permits:  new(mocks.AssistantPermitRepository),
		locks:    mocks.NewMemoryLock(),
		notifier: &recordingNotifier{},
	}
	f.svc = service.NewMemberService(f.rooms, f.members, f.bans, f.permits, f.locks, f.notifier, 0)
	return f
}

func (f *memberFixture) assertExpectations(t *testing.T) {
	f.rooms.AssertExpectations(t)
	f.members.AssertExpectations(t)
	f.bans.AssertExpectations(t)
	f.permits.AssertExpectations(t)
}

func testRoom() *domain.Room {
	return &domain.Room{
		ID:          "c1",
		TeacherID:   "teacher",
		AliyunID:    "c1",
		RongCloudID: "rc1",
		IMServer:    "aliyun_old_im,rong_cloud",
	}
}

// --- 测试 Join 方法 ---

func TestMemberService_Join_NewStudent(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrNotFound).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrMemberNotFound).Once()
	f.members.On("Save", ctx, mock.MatchedBy(func(m *domain.Member) bool {
		return m.ID == 0 && m.UserID == "alice" && m.Identity == domain.IdentityStudent &&
			m.Status == domain.MemberStatusNormal && !m.CreatedAt.IsZero()
	})).Return(nil).Once()

	// Act
	member, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice", UserName: "Alice"})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, domain.IdentityStudent, member.Identity)
	assert.Equal(t, "Alice", member.UserName)

	calls := f.notifier.all()
	require.Len(t, calls, 1, "加入成功应发送一条消息")
	assert.Equal(t, domain.MessageTypeJoin, calls[0].msgType)
	assert.Equal(t, []domain.MessagingChannel{domain.ChannelLegacy, domain.ChannelThirdParty}, calls[0].channels)
	assert.False(t, f.locks.Held("lock:class:c1:user:alice"), "锁应被释放")
	f.assertExpectations(t)
}

func TestMemberService_Join_AlreadyInClassIsIdempotent(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	existing := &domain.Member{ID: 3, ClassID: "c1", UserID: "alice", Identity: domain.IdentityStudent, Status: domain.MemberStatusNormal}
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrNotFound).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").Return(existing, nil).Once()

	// Act
	member, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice"})

	// Assert: 不应再次写入，也不发消息
	require.NoError(t, err)
	assert.Equal(t, "alice", member.UserID)
	f.members.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.all())
	f.assertExpectations(t)
}

func TestMemberService_Join_RejoinReusesPrimaryKey(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	existing := &domain.Member{ID: 7, ClassID: "c1", UserID: "alice", Status: domain.MemberStatusExit}
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrNotFound).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").Return(existing, nil).Once()
	f.members.On("Save", ctx, mock.MatchedBy(func(m *domain.Member) bool {
		return m.ID == 7 && m.Status == domain.MemberStatusNormal
	})).Return(nil).Once()

	// Act
	_, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice"})

	// Assert
	require.NoError(t, err)
	assert.Len(t, f.notifier.all(), 1)
	f.assertExpectations(t)
}

func TestMemberService_Join_ClassNotFound(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "missing").Return(nil, repository.ErrRoomNotFound).Once()

	// Act
	member, err := f.svc.Join(ctx, service.JoinInput{ClassID: "missing", UserID: "alice"})

	// Assert
	assert.ErrorIs(t, err, service.ErrClassNotFound)
	assert.Nil(t, member)
	f.bans.AssertNotCalled(t, "FindByClassAndUser", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestMemberService_Join_BannedUser(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").
		Return(&domain.BanEntry{ClassID: "c1", UserID: "alice", ExpiredAt: time.Now().AddDate(0, 12, 0)}, nil).Once()

	// Act
	_, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice"})

	// Assert: 黑名单用户不应产生任何成员写入
	assert.ErrorIs(t, err, service.ErrInBlackList)
	f.members.AssertNotCalled(t, "FindByClassAndUser", mock.Anything, mock.Anything, mock.Anything)
	f.members.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.all())
	f.assertExpectations(t)
}

func TestMemberService_Join_ExpiredBanStillBlocks(t *testing.T) {
	// Arrange: 黑名单记录已过期
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").
		Return(&domain.BanEntry{ClassID: "c1", UserID: "alice", ExpiredAt: time.Now().AddDate(-1, 0, 0)}, nil).Once()

	// Act
	_, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice"})

	// Assert
	assert.ErrorIs(t, err, service.ErrInBlackList)
	f.members.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestMemberService_Join_TeacherIgnoresRequestedIdentity(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "teacher").Return(nil, repository.ErrNotFound).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "teacher").Return(nil, repository.ErrMemberNotFound).Once()
	f.members.On("Save", ctx, mock.MatchedBy(func(m *domain.Member) bool {
		return m.Identity == domain.IdentityTeacher
	})).Return(nil).Once()

	// Act
	member, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "teacher", Identity: domain.IdentityAssistant})

	// Assert: 老师不走助教校验
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityTeacher, member.Identity)
	f.permits.AssertNotCalled(t, "FindByClassID", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestMemberService_Join_AssistantWithoutPermit(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "bob").Return(nil, repository.ErrNotFound).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "bob").Return(nil, repository.ErrMemberNotFound).Once()
	f.permits.On("FindByClassID", ctx, "c1").Return(nil, repository.ErrPermitNotFound).Once()

	// Act
	_, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant})

	// Assert
	assert.ErrorIs(t, err, service.ErrClassNotAssistantPermit)
	f.members.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.False(t, f.locks.Held("lock:class:c1:assistant"))
	f.assertExpectations(t)
}

func TestMemberService_Join_SequentialAssistants(t *testing.T) {
	// Arrange: bob 先成为助教，carol 随后申请
	f := newMemberFixture()
	ctx := context.Background()
	permit := &domain.AssistantPermit{ClassID: "c1", Permit: "{}"}
	bob := &domain.Member{ID: 1, ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant, Status: domain.MemberStatusNormal}

	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Twice()
	f.permits.On("FindByClassID", ctx, "c1").Return(permit, nil).Twice()
	f.bans.On("FindByClassAndUser", ctx, "c1", mock.Anything).Return(nil, repository.ErrNotFound).Twice()
	f.members.On("FindByClassAndUser", ctx, "c1", mock.Anything).Return(nil, repository.ErrMemberNotFound).Twice()
	f.members.On("FindAssistant", ctx, "c1", domain.MemberStatusNormal).Return(nil, repository.ErrMemberNotFound).Once()
	f.members.On("Save", ctx, mock.MatchedBy(func(m *domain.Member) bool { return m.UserID == "bob" })).Return(nil).Once()
	f.members.On("FindAssistant", ctx, "c1", domain.MemberStatusNormal).Return(bob, nil).Once()

	// Act
	_, errBob := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant})
	_, errCarol := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "carol", Identity: domain.IdentityAssistant})

	// Assert
	assert.NoError(t, errBob, "第一个助教应加入成功")
	assert.ErrorIs(t, errCarol, service.ErrClassHasAssistant, "第二个助教应被拒绝")
	assert.Len(t, f.notifier.all(), 1)
	f.assertExpectations(t)
}

func TestMemberService_Join_SameAssistantRejoins(t *testing.T) {
	// Arrange: 在线助教记录就是自己 (例如状态被并发修改后重进)
	f := newMemberFixture()
	ctx := context.Background()
	bob := &domain.Member{ID: 1, ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant, Status: domain.MemberStatusNormal}
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "bob").Return(nil, repository.ErrNotFound).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "bob").Return(&domain.Member{ID: 1, UserID: "bob", Status: domain.MemberStatusExit}, nil).Once()
	f.permits.On("FindByClassID", ctx, "c1").Return(&domain.AssistantPermit{ClassID: "c1"}, nil).Once()
	f.members.On("FindAssistant", ctx, "c1", domain.MemberStatusNormal).Return(bob, nil).Once()
	f.members.On("Save", ctx, mock.Anything).Return(nil).Once()

	// Act
	_, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant})

	// Assert
	assert.NoError(t, err)
	f.assertExpectations(t)
}

func TestMemberService_Join_ClassBusy(t *testing.T) {
	// Arrange: 同一用户的锁已被占用
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	_, err := f.locks.Acquire(ctx, "lock:class:c1:user:alice", time.Second, 0)
	require.NoError(t, err)

	// Act
	_, err = f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice"})

	// Assert
	assert.ErrorIs(t, err, service.ErrClassBusy)
	f.bans.AssertNotCalled(t, "FindByClassAndUser", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestMemberService_Join_SaveFails(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrNotFound).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrMemberNotFound).Once()
	f.members.On("Save", ctx, mock.Anything).Return(assert.AnError).Once()

	// Act
	_, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice"})

	// Assert
	assert.ErrorIs(t, err, service.ErrDBException)
	assert.Empty(t, f.notifier.all())
	f.assertExpectations(t)
}

// --- 测试 Leave 方法 ---

func TestMemberService_Leave_Success(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").
		Return(&domain.Member{ID: 3, ClassID: "c1", UserID: "alice", Status: domain.MemberStatusNormal}, nil).Once()
	f.members.On("UpdateStatus", ctx, "c1", "alice", domain.MemberStatusExit).Return(nil).Once()

	// Act
	err := f.svc.Leave(ctx, "c1", "alice")

	// Assert
	require.NoError(t, err)
	calls := f.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.MessageTypeExit, calls[0].msgType)
	assert.Equal(t, domain.MemberStatusExit, calls[0].member.Status)
	f.assertExpectations(t)
}

func TestMemberService_Leave_NotInClass(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").
		Return(&domain.Member{ID: 3, ClassID: "c1", UserID: "alice", Status: domain.MemberStatusKick}, nil).Once()

	// Act
	err := f.svc.Leave(ctx, "c1", "alice")

	// Assert
	assert.ErrorIs(t, err, service.ErrNotInClass)
	f.members.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.all())
	f.assertExpectations(t)
}

func TestMemberService_Leave_NeverJoined(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "ghost").Return(nil, repository.ErrMemberNotFound).Once()

	// Act
	err := f.svc.Leave(ctx, "c1", "ghost")

	// Assert
	assert.ErrorIs(t, err, service.ErrNotInClass)
	f.assertExpectations(t)
}

// --- 测试 Kick 方法 ---

func TestMemberService_Kick_Success(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrNotFound).Once()
	f.bans.On("Save", ctx, mock.MatchedBy(func(e *domain.BanEntry) bool {
		// 过期时间为踢出时间 + 12 个月
		return e.ClassID == "c1" && e.UserID == "alice" && e.ExpiredAt.Equal(e.CreatedAt.AddDate(0, domain.BanMonths, 0))
	})).Return(nil).Once()
	f.members.On("UpdateStatus", ctx, "c1", "alice", domain.MemberStatusKick).Return(nil).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").
		Return(&domain.Member{ID: 3, ClassID: "c1", UserID: "alice", Status: domain.MemberStatusKick}, nil).Once()

	// Act
	err := f.svc.Kick(ctx, "c1", "alice", nil)

	// Assert: 未指定通道时发往课堂开通的全部通道
	require.NoError(t, err)
	calls := f.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.MessageTypeKick, calls[0].msgType)
	assert.Equal(t, []domain.MessagingChannel{domain.ChannelLegacy, domain.ChannelThirdParty}, calls[0].channels)
	f.assertExpectations(t)
}

func TestMemberService_Kick_SelectedChannel(t *testing.T) {
	// Arrange: 已在黑名单中时不重复写入
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(&domain.BanEntry{ClassID: "c1", UserID: "alice"}, nil).Once()
	f.members.On("UpdateStatus", ctx, "c1", "alice", domain.MemberStatusKick).Return(nil).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").Return(&domain.Member{ID: 3, UserID: "alice"}, nil).Once()

	// Act
	err := f.svc.Kick(ctx, "c1", "alice", []domain.MessagingChannel{domain.ChannelThirdParty})

	// Assert
	require.NoError(t, err)
	f.bans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	calls := f.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, []domain.MessagingChannel{domain.ChannelThirdParty}, calls[0].channels)
	f.assertExpectations(t)
}

func TestMemberService_Kick_UserNeverJoined(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "ghost").Return(nil, repository.ErrNotFound).Once()
	f.bans.On("Save", ctx, mock.Anything).Return(nil).Once()
	f.members.On("UpdateStatus", ctx, "c1", "ghost", domain.MemberStatusKick).Return(repository.ErrMemberNotFound).Once()

	// Act
	err := f.svc.Kick(ctx, "c1", "ghost", nil)

	// Assert: 黑名单照常写入，但没有成员可通知
	require.NoError(t, err)
	assert.Empty(t, f.notifier.all())
	f.assertExpectations(t)
}

func TestMemberService_Kick_BanSaveFails(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrNotFound).Once()
	f.bans.On("Save", ctx, mock.Anything).Return(assert.AnError).Once()

	// Act
	err := f.svc.Kick(ctx, "c1", "alice", nil)

	// Assert
	assert.ErrorIs(t, err, service.ErrDBException)
	f.members.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

// TestMemberService_KickThenJoin 踢出后再加入应被黑名单拦截
func TestMemberService_KickThenJoin(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	var saved *domain.BanEntry
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Twice()
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(nil, repository.ErrNotFound).Once()
	f.bans.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.BanEntry)
	}).Return(nil).Once()
	f.members.On("UpdateStatus", ctx, "c1", "alice", domain.MemberStatusKick).Return(nil).Once()
	f.members.On("FindByClassAndUser", ctx, "c1", "alice").Return(&domain.Member{ID: 3, UserID: "alice"}, nil).Once()

	// Act
	require.NoError(t, f.svc.Kick(ctx, "c1", "alice", nil))
	require.NotNil(t, saved)
	f.bans.On("FindByClassAndUser", ctx, "c1", "alice").Return(saved, nil).Once()
	_, err := f.svc.Join(ctx, service.JoinInput{ClassID: "c1", UserID: "alice"})

	// Assert
	assert.ErrorIs(t, err, service.ErrInBlackList)
	f.members.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

// --- 测试 List / 助教相关方法 ---

func TestMemberService_List_DefaultsAndOrder(t *testing.T) {
	// Arrange: 仓库按 identity desc, status asc, created_at desc 返回
	f := newMemberFixture()
	ctx := context.Background()
	now := time.Now()
	ordered := []domain.Member{
		{ID: 1, ClassID: "c1", UserID: "teacher", Identity: domain.IdentityTeacher, Status: domain.MemberStatusNormal, CreatedAt: now},
		{ID: 2, ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant, Status: domain.MemberStatusNormal, CreatedAt: now},
		{ID: 4, ClassID: "c1", UserID: "dave", Identity: domain.IdentityStudent, Status: domain.MemberStatusNormal, CreatedAt: now},
		{ID: 3, ClassID: "c1", UserID: "alice", Identity: domain.IdentityStudent, Status: domain.MemberStatusNormal, CreatedAt: now.Add(-time.Minute)},
		{ID: 5, ClassID: "c1", UserID: "eve", Identity: domain.IdentityStudent, Status: domain.MemberStatusKick, CreatedAt: now},
	}
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.members.On("Page", ctx, repository.MemberQuery{ClassID: "c1", PageNum: 1, PageSize: 20}).Return(ordered, int64(5), nil).Once()

	// Act
	page, err := f.svc.List(ctx, repository.MemberQuery{ClassID: "c1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Members, 5)
	got := make([]string, 0, 5)
	for _, m := range page.Members {
		got = append(got, m.UserID)
	}
	assert.Equal(t, []string{"teacher", "bob", "dave", "alice", "eve"}, got)
	f.assertExpectations(t)
}

func TestMemberService_List_ClassNotFound(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.rooms.On("FindByID", ctx, "missing").Return(nil, repository.ErrRoomNotFound).Once()

	// Act
	page, err := f.svc.List(ctx, repository.MemberQuery{ClassID: "missing"})

	// Assert
	assert.ErrorIs(t, err, service.ErrClassNotFound)
	assert.Nil(t, page)
	f.assertExpectations(t)
}

func TestMemberService_AssistantMember_None(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	f.members.On("FindAssistant", ctx, "c1", domain.MemberStatusNormal).Return(nil, repository.ErrMemberNotFound).Once()

	// Act
	m, err := f.svc.AssistantMember(ctx, "c1")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, m)
	f.assertExpectations(t)
}

func TestMemberService_RemoveAssistant_NotifiesWhenOnline(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	bob := &domain.Member{ID: 9, ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant, Status: domain.MemberStatusNormal}
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.members.On("FindAssistant", ctx, "c1", domain.MemberStatusAll).Return(bob, nil).Once()
	f.members.On("Delete", ctx, uint(9)).Return(nil).Once()

	// Act
	err := f.svc.RemoveAssistant(ctx, "c1", nil)

	// Assert
	require.NoError(t, err)
	calls := f.notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.MessageTypeExit, calls[0].msgType)
	assert.Equal(t, "bob", calls[0].member.UserID)
	f.assertExpectations(t)
}

func TestMemberService_RemoveAssistant_OfflineDeletesSilently(t *testing.T) {
	// Arrange
	f := newMemberFixture()
	ctx := context.Background()
	bob := &domain.Member{ID: 9, ClassID: "c1", UserID: "bob", Identity: domain.IdentityAssistant, Status: domain.MemberStatusExit}
	f.rooms.On("FindByID", ctx, "c1").Return(testRoom(), nil).Once()
	f.members.On("FindAssistant", ctx, "c1", domain.MemberStatusAll).Return(bob, nil).Once()
	f.members.On("Delete", ctx, uint(9)).Return(nil).Once()

	// Act
	err := f.svc.RemoveAssistant(ctx, "c1", nil)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, f.notifier.all())
	f.assertExpectations(t)
}
