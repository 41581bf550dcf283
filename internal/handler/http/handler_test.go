package http_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	httpHandler "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/handler/http"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/middleware"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
	providermocks "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider/mocks"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository/mocks"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	gin.SetMode(gin.TestMode)
	if err := httpHandler.RegisterValidators(); err != nil {
		panic(err)
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(_ context.Context, _ *domain.Room, _ []domain.MessagingChannel, _ domain.MessageType, _ *dto.ClassMember) {
}

// --- 测试辅助 ---

type routerFixture struct {
	rooms     *mocks.RoomRepository
	members   *mocks.MemberRepository
	bans      *mocks.BanRepository
	verifier  *providermocks.CallbackSignatureVerifier
	legacy    *providermocks.TokenIssuer
	moderator *providermocks.ChatroomModerator
	router    *gin.Engine
}

func newRouterFixture(auth gin.HandlerFunc) *routerFixture {
	f := &routerFixture{
		rooms:     new(mocks.RoomRepository),
		members:   new(mocks.MemberRepository),
		bans:      new(mocks.BanRepository),
		verifier:  new(providermocks.CallbackSignatureVerifier),
		legacy:    new(providermocks.TokenIssuer),
		moderator: new(providermocks.ChatroomModerator),
	}
	locks := mocks.NewMemoryLock()
	permits := new(mocks.AssistantPermitRepository)
	checkIns := new(mocks.CheckInRepository)
	docs := new(mocks.DocRepository)

	classes := service.NewClassService(service.ClassServiceDeps{
		Rooms:    f.rooms,
		Members:  f.members,
		Locks:    locks,
		Channels: provider.ChannelTable{domain.ChannelLegacy: {Tokens: f.legacy}},
		Links:    new(providermocks.RtcLinkProvider),
		Verifier: f.verifier,
	}, service.ClassOptions{})
	members := service.NewMemberService(f.rooms, f.members, f.bans, permits, locks, noopNotifier{}, 0)
	tokens, err := service.NewAuthTokenService("jump", "login", 1)
	if err != nil {
		panic(err)
	}

	f.router = gin.New()
	httpHandler.RegisterRoutes(f.router, httpHandler.Handlers{
		Class:    httpHandler.NewClassHandler(classes, tokens),
		Chatroom: httpHandler.NewChatroomHandler(service.NewChatroomService(f.moderator), classes),
		Member:   httpHandler.NewMemberHandler(members, service.NewAssistantPermitService(f.rooms, permits, members)),
		Doc:      httpHandler.NewDocHandler(service.NewDocService(docs)),
		CheckIn:  httpHandler.NewCheckInHandler(service.NewCheckInService(checkIns)),
	}, auth)
	return f
}

type envelope struct {
	Code    int                    `json:"code"`
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func (f *routerFixture) post(t *testing.T, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

// --- 错误映射 ---

func TestHandleServiceError_Reasons(t *testing.T) {
	cases := []struct {
		err    error
		code   int
		reason string
	}{
		{service.ErrClassNotFound, httpHandler.CodeNotFound, httpHandler.ReasonClassNotFound},
		{service.ErrInBlackList, httpHandler.CodeOK, httpHandler.ReasonInBlackList},
		{service.ErrClassHasAssistant, httpHandler.CodeOK, httpHandler.ReasonClassHasAssistant},
		{service.ErrPermissionDenied, httpHandler.CodeForbidden, httpHandler.ReasonPermissionDenied},
		{fmt.Errorf("%w: create whiteboard code 414", service.ErrProviderError), httpHandler.CodeError, httpHandler.ReasonProviderError},
		{service.ErrClassBusy, httpHandler.CodeOK, httpHandler.ReasonClassBusy},
	}
	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			// Act
			httpHandler.HandleServiceError(c, tc.err)

			// Assert: HTTP 状态码总是 200
			var env envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Code)
			assert.Equal(t, tc.reason, env.Data["reason"])
		})
	}
}

func TestHandleServiceError_UnknownError(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Act
	httpHandler.HandleServiceError(c, errors.New("boom"))

	// Assert: 内部错误不外泄
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, httpHandler.CodeError, env.Code)
	assert.NotContains(t, env.Message, "boom")
	assert.Nil(t, env.Data)
}

// --- 成员接口 ---

func TestMemberHandler_JoinClass_Banned(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)
	f.rooms.On("FindByID", mock.Anything, "c1").Return(&domain.Room{ID: "c1", TeacherID: "teacher"}, nil).Once()
	f.bans.On("FindByClassAndUser", mock.Anything, "c1", "alice").
		Return(&domain.BanEntry{ClassID: "c1", UserID: "alice", ExpiredAt: time.Now().AddDate(0, 1, 0)}, nil).Once()

	// Act
	_, env := f.post(t, "/api/v1/class/joinClass", gin.H{"class_id": "c1", "user_id": "alice", "user_name": "Alice"})

	// Assert
	assert.False(t, env.Success)
	assert.Equal(t, httpHandler.ReasonInBlackList, env.Data["reason"])
}

func TestMemberHandler_JoinClass_InvalidIdentity(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)

	// Act
	_, env := f.post(t, "/api/v1/class/joinClass", gin.H{"class_id": "c1", "user_id": "alice", "user_name": "Alice", "identity": 7})

	// Assert
	assert.Equal(t, httpHandler.CodeInvalidParam, env.Code)
	assert.Equal(t, httpHandler.ReasonInvalidParam, env.Data["reason"])
	f.rooms.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestMemberHandler_ListMembers_StatusRequired(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)

	// Act
	_, missing := f.post(t, "/api/v1/class/listMembers", gin.H{"class_id": "c1"})
	_, invalid := f.post(t, "/api/v1/class/listMembers", gin.H{"class_id": "c1", "status": 9})

	// Assert
	assert.Equal(t, httpHandler.ReasonInvalidParam, missing.Data["reason"])
	assert.Equal(t, httpHandler.ReasonInvalidParam, invalid.Data["reason"])
}

func TestMemberHandler_ListMembers_StatusAll(t *testing.T) {
	// Arrange: status 为 0 表示全部
	f := newRouterFixture(nil)
	f.rooms.On("FindByID", mock.Anything, "c1").Return(&domain.Room{ID: "c1"}, nil).Once()
	f.members.On("Page", mock.Anything, repository.MemberQuery{ClassID: "c1", Status: domain.MemberStatusAll, PageNum: 1, PageSize: 20}).
		Return([]domain.Member{{ClassID: "c1", UserID: "alice", Identity: domain.IdentityStudent, Status: domain.MemberStatusNormal}}, int64(1), nil).Once()

	// Act
	_, env := f.post(t, "/api/v1/class/listMembers", gin.H{"class_id": "c1", "status": 0})

	// Assert
	assert.True(t, env.Success)
	assert.EqualValues(t, 1, env.Data["total"])
	f.members.AssertExpectations(t)
}

// --- 课堂接口 ---

func TestClassHandler_PushCallback_MissingHeaders(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/class/handlePushStreamEventCallback?id=c1_teacher_camera&action=publish", nil)
	w := httptest.NewRecorder()

	// Act
	f.router.ServeHTTP(w, req)

	// Assert
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, httpHandler.ReasonInvalidParam, env.Data["reason"])
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestClassHandler_PushCallback_InvalidSignature(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)
	f.verifier.On("Verify", "sig", "123").Return(false).Once()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/class/handlePushStreamEventCallback?id=c1_teacher_camera&action=publish", nil)
	req.Header.Set("ALI-LIVE-SIGNATURE", "sig")
	req.Header.Set("ALI-LIVE-TIMESTAMP", "123")
	w := httptest.NewRecorder()

	// Act
	f.router.ServeHTTP(w, req)

	// Assert
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, httpHandler.ReasonInvalidSignature, env.Data["reason"])
	f.rooms.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestClassHandler_TokenV1_FlatKeys(t *testing.T) {
	// Arrange: 未指定通道时默认老 IM
	f := newRouterFixture(nil)
	f.legacy.On("IssueToken", mock.Anything, mock.MatchedBy(func(r provider.TokenRequest) bool { return r.UserID == "alice" })).
		Return(&provider.LegacyToken{AccessToken: "at", RefreshToken: "rt"}, nil).Once()

	// Act
	_, env := f.post(t, "/api/v1/class/token", gin.H{"user_id": "alice"})

	// Assert
	require.True(t, env.Success)
	assert.Equal(t, "at", env.Data["aliyun_access_token"])
	assert.Equal(t, "rt", env.Data["aliyun_refresh_token"])
	assert.Equal(t, "", env.Data["rong_cloud_token"])
}

func TestClassHandler_TokenV1_ThirdPartyNotConfigured(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)

	// Act
	_, env := f.post(t, "/api/v1/class/token", gin.H{"user_id": "alice", "im_server": []string{"rongCloud"}})

	// Assert: v1 任一通道失败即失败
	assert.False(t, env.Success)
	assert.Equal(t, httpHandler.ReasonProviderError, env.Data["reason"])
}

func TestClassHandler_TokenV2(t *testing.T) {
	t.Run("unknown channel", func(t *testing.T) {
		f := newRouterFixture(nil)

		_, env := f.post(t, "/api/v2/class/token", gin.H{"user_id": "alice", "im_server": []string{"aliyun"}})

		assert.Equal(t, httpHandler.ReasonInvalidParam, env.Data["reason"])
	})

	t.Run("skips failed channel", func(t *testing.T) {
		f := newRouterFixture(nil)
		f.legacy.On("IssueToken", mock.Anything, mock.Anything).
			Return(&provider.LegacyToken{AccessToken: "at", RefreshToken: "rt"}, nil).Once()

		_, env := f.post(t, "/api/v2/class/token", gin.H{"user_id": "alice", "im_server": []string{"aliyun_old_im", "rong_cloud"}})

		require.True(t, env.Success)
		assert.Equal(t, map[string]interface{}{"access_token": "at", "refresh_token": "rt"}, env.Data["aliyun_old_im"])
		assert.NotContains(t, env.Data, "rong_cloud")
	})
}

func TestClassHandler_CreateV1_EmptyChannels(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)

	// Act: 只有无法识别的通道
	_, env := f.post(t, "/api/v1/class/create", gin.H{"title": "math", "teacher_id": "teacher", "im_server": []string{"unknown"}})

	// Assert
	assert.False(t, env.Success)
	assert.Equal(t, httpHandler.ReasonInvalidParam, env.Data["reason"])
	f.rooms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- 聊天室接口 ---

func TestChatroomHandler_NonRongCloudIsEmpty(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)

	// Act
	_, env := f.post(t, "/api/v1/class/muteChatroom", gin.H{"chatroom_id": "rc1", "server_type": "aliyun"})

	// Assert
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)
	f.moderator.AssertNotCalled(t, "MuteChatroom", mock.Anything, mock.Anything)
}

func TestChatroomHandler_MuteUser(t *testing.T) {
	// Arrange
	f := newRouterFixture(nil)
	f.moderator.On("MuteUser", mock.Anything, "rc1", "alice", 10).Return(nil).Once()

	// Act
	_, env := f.post(t, "/api/v1/class/muteUser", gin.H{"chatroom_id": "rc1", "user_id": "alice", "minute": 10, "server_type": "rongCloud"})

	// Assert
	assert.True(t, env.Success)
	assert.Equal(t, true, env.Data["result"])
	f.moderator.AssertExpectations(t)
}

// --- 路由 ---

func TestRegisterRoutes_AuthGuard(t *testing.T) {
	// Arrange
	f := newRouterFixture(middleware.Auth("login"))

	// Act
	w, _ := f.post(t, "/api/v1/class/get", gin.H{"id": "c1", "user_id": "alice"})
	ping := httptest.NewRecorder()
	f.router.ServeHTTP(ping, httptest.NewRequest(http.MethodGet, "/ping", nil))
	callback := httptest.NewRecorder()
	f.router.ServeHTTP(callback, httptest.NewRequest(http.MethodGet, "/api/v1/class/handlePushStreamEventCallback", nil))

	// Assert: 推流回调不需要登录
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusOK, ping.Code)
	assert.Equal(t, http.StatusOK, callback.Code)
}
