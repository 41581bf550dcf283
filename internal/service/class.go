package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultListConcurrency = 8
	defaultListTaskTimeout = 3 * time.Second
	boardCodeOK            = 200
)

// ClassServiceDeps ClassService 的依赖。Vod/Metrics/Whiteboard 可为 nil，对应信息不返回。
type ClassServiceDeps struct {
	Rooms      repository.RoomRepository
	Members    repository.MemberRepository
	Locks      repository.LockRepository
	Channels   provider.ChannelTable
	Links      provider.RtcLinkProvider
	Verifier   provider.CallbackSignatureVerifier
	Vod        provider.VodProvider
	Metrics    provider.GroupMetricsProvider
	Whiteboard provider.WhiteboardProvider
}

// ClassOptions ClassService 的可调参数
type ClassOptions struct {
	ListConcurrency int
	ListTaskTimeout time.Duration
	LockWait        time.Duration
}

// ClassService 负责课堂的创建、查询、状态流转和删除。
type ClassService struct {
	roomRepo   repository.RoomRepository
	locks      repository.LockRepository
	seat       *AssistantSeat
	channels   provider.ChannelTable
	links      provider.RtcLinkProvider
	verifier   provider.CallbackSignatureVerifier
	vod        provider.VodProvider
	metrics    provider.GroupMetricsProvider
	whiteboard provider.WhiteboardProvider
	opts       ClassOptions
	now        func() time.Time
}

// NewClassService 创建 ClassService 实例。
func NewClassService(deps ClassServiceDeps, opts ClassOptions) *ClassService {
	if deps.Rooms == nil {
		panic("RoomRepository cannot be nil for ClassService")
	}
	if deps.Members == nil {
		panic("MemberRepository cannot be nil for ClassService")
	}
	if deps.Locks == nil {
		panic("LockRepository cannot be nil for ClassService")
	}
	if deps.Links == nil {
		panic("RtcLinkProvider cannot be nil for ClassService")
	}
	if deps.Verifier == nil {
		panic("CallbackSignatureVerifier cannot be nil for ClassService")
	}
	if deps.Channels == nil {
		deps.Channels = provider.ChannelTable{}
	}
	if opts.ListConcurrency <= 0 {
		opts.ListConcurrency = defaultListConcurrency
	}
	if opts.ListTaskTimeout <= 0 {
		opts.ListTaskTimeout = defaultListTaskTimeout
	}
	if opts.LockWait <= 0 {
		opts.LockWait = DefaultLockWait
	}
	return &ClassService{
		roomRepo:   deps.Rooms,
		locks:      deps.Locks,
		seat:       NewAssistantSeat(deps.Members),
		channels:   deps.Channels,
		links:      deps.Links,
		verifier:   deps.Verifier,
		vod:        deps.Vod,
		metrics:    deps.Metrics,
		whiteboard: deps.Whiteboard,
		opts:       opts,
		now:        time.Now,
	}
}

// CreateInput 创建课堂的参数
type CreateInput struct {
	Title       string
	Notice      string
	CoverURL    string
	TeacherID   string
	TeacherNick string
	Mode        domain.RoomMode
	ExtendsInfo string
	Channels    []domain.MessagingChannel
}

// Create 在选定的消息通道上创建群组、创建白板，再保存课堂。
// 课堂 ID 取老 IM (或新 IM) 的群组 ID，都没有时取融云聊天室 ID。
func (s *ClassService) Create(ctx context.Context, in CreateInput) (*dto.RoomSnapshot, error) {
	logCtx := logrus.WithFields(logrus.Fields{"teacher_id": in.TeacherID, "im_server": domain.JoinChannels(in.Channels)})

	if len(in.Channels) == 0 {
		return nil, fmt.Errorf("%w: im_server is empty", ErrInvalidParam)
	}

	// 1. 创建消息群组 (Legacy 必须先于 Current)
	var aliyunID, rongCloudID string
	var opened []domain.MessagingChannel
	for _, ch := range domain.AllChannels {
		if !domain.ContainsChannel(in.Channels, ch) {
			continue
		}
		c, ok := s.channels.Get(ch)
		if !ok || c.Groups == nil {
			logCtx.WithField("channel", ch.String()).Warn("IM group service is not configured")
			continue
		}
		switch ch {
		case domain.ChannelLegacy:
			id, err := c.Groups.CreateGroup(ctx, "", in.TeacherID)
			if err != nil || id == "" {
				logCtx.WithError(err).Error("Failed to create legacy IM group")
				return nil, fmt.Errorf("%w: aliyun createMessageGroup error. teacher: %s", ErrProviderError, in.TeacherID)
			}
			aliyunID = id
		case domain.ChannelCurrent:
			preferred := aliyunID
			if preferred == "" {
				preferred = strings.ReplaceAll(uuid.New().String(), "-", "")
			}
			id, err := c.Groups.CreateGroup(ctx, preferred, in.TeacherID)
			if err != nil || id == "" {
				// 已有老 IM 群组时沿用其 ID
				if aliyunID == "" {
					logCtx.WithError(err).Error("Failed to create current IM group")
					return nil, fmt.Errorf("%w: aliyun createLiveMessageGroup error. teacher: %s", ErrProviderError, in.TeacherID)
				}
				logCtx.WithError(err).Warn("Failed to create current IM group, keep legacy group id")
				id = aliyunID
			}
			aliyunID = id
		case domain.ChannelThirdParty:
			id, err := c.Groups.CreateGroup(ctx, "", in.TeacherID)
			if err != nil || id == "" {
				logCtx.WithError(err).Error("Failed to create rong cloud chatroom")
				return nil, fmt.Errorf("%w: rongCloud createMessageGroup error. teacher: %s", ErrProviderError, in.TeacherID)
			}
			rongCloudID = id
		}
		opened = append(opened, ch)
	}
	classID := aliyunID
	if classID == "" {
		classID = rongCloudID
	}
	if classID == "" {
		logCtx.Error("No IM group created for class")
		return nil, fmt.Errorf("%w: no IM group service configured", ErrProviderError)
	}
	logCtx = logCtx.WithField("class_id", classID)

	// 2. 创建白板
	boards, err := s.createBoard(ctx, classID, in.Title)
	if err != nil {
		logCtx.WithError(err).Error("Failed to create whiteboard")
		return nil, err
	}

	// 3. 保存课堂
	now := s.now()
	room := &domain.Room{
		ID:          classID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       in.Title,
		Notice:      in.Notice,
		CoverURL:    in.CoverURL,
		TeacherID:   in.TeacherID,
		TeacherNick: in.TeacherNick,
		ExtendsInfo: in.ExtendsInfo,
		AliyunID:    aliyunID,
		RongCloudID: rongCloudID,
		Mode:        in.Mode,
		Status:      domain.RoomStatusPrepare,
		BoardsInfo:  boards,
		MeetingID:   uuid.New().String(),
		IMServer:    domain.JoinChannels(opened),
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save class")
		return nil, ErrDBException
	}

	snapshot := dto.NewRoomSnapshot(room)
	snapshot.LinkInfo = s.links.Link(room.MeetingID, in.TeacherID, in.TeacherID)
	logCtx.Info("Class created successfully")
	return snapshot, nil
}

// createBoard 返回序列化后的白板信息，未配置白板服务时返回空字符串
func (s *ClassService) createBoard(ctx context.Context, boardID, title string) (string, error) {
	if s.whiteboard == nil {
		return "", nil
	}
	res, err := s.whiteboard.Create(ctx, boardID, title)
	if err != nil {
		return "", fmt.Errorf("%w: create whiteboard: %v", ErrProviderError, err)
	}
	if res.Code != boardCodeOK {
		return "", fmt.Errorf("%w: create whiteboard code %d: %s", ErrProviderError, res.Code, res.Message)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("%w: marshal whiteboard: %v", ErrInternalServer, err)
	}
	return string(b), nil
}

// Get 课堂详情，userID 决定返回的推拉流地址
func (s *ClassService) Get(ctx context.Context, classID, userID string) (*dto.RoomSnapshot, error) {
	room, err := findRoom(ctx, s.roomRepo, classID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, room, userID), nil
}

// UpdateInput 更新课堂信息的参数，空字符串表示不修改
type UpdateInput struct {
	ClassID     string
	Title       string
	Notice      string
	ExtendsInfo string
}

// Update 更新标题/公告/扩展信息，返回老师视角的详情
func (s *ClassService) Update(ctx context.Context, in UpdateInput) (*dto.RoomSnapshot, error) {
	logCtx := logrus.WithField("class_id", in.ClassID)

	if _, err := findRoom(ctx, s.roomRepo, in.ClassID); err != nil {
		return nil, err
	}
	err := s.roomRepo.UpdateInfo(ctx, in.ClassID, repository.RoomInfoUpdate{
		Title:       in.Title,
		Notice:      in.Notice,
		ExtendsInfo: in.ExtendsInfo,
	})
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrClassNotFound
		}
		logCtx.WithError(err).Error("Failed to update class info")
		return nil, ErrDBException
	}
	room, err := findRoom(ctx, s.roomRepo, in.ClassID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(ctx, room, room.TeacherID), nil
}

// Delete 删除课堂及其白板，返回删除前的详情
func (s *ClassService) Delete(ctx context.Context, classID, userID string) (*dto.RoomSnapshot, error) {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": classID, "user_id": userID})

	if err := s.verifyPermission(ctx, classID, userID); err != nil {
		return nil, err
	}
	snapshot, err := s.Get(ctx, classID, userID)
	if err != nil {
		return nil, err
	}

	if cid := boardCid(snapshot.BoardsInfo); cid != "" && s.whiteboard != nil {
		code, err := s.whiteboard.Delete(ctx, cid)
		if err != nil {
			logCtx.WithError(err).Warn("Failed to delete whiteboard")
		} else if code == boardCodeOK {
			logCtx.WithField("cid", cid).Info("Whiteboard deleted")
		}
	}

	if err := s.roomRepo.Delete(ctx, classID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrClassNotFound
		}
		logCtx.WithError(err).Error("Failed to delete class")
		return nil, ErrDBException
	}
	logCtx.Info("Class deleted")
	return snapshot, nil
}

func boardCid(boards string) string {
	if boards == "" {
		return ""
	}
	var b dto.BoardCreateResult
	if err := json.Unmarshal([]byte(boards), &b); err != nil {
		return ""
	}
	return b.Cid
}

// IssueTokens 在各通道上签发 IM 登录凭证。
// strict 为 true 时任一通道失败即返回错误，否则跳过失败的通道。
func (s *ClassService) IssueTokens(ctx context.Context, channels []domain.MessagingChannel, req provider.TokenRequest, strict bool) (map[domain.MessagingChannel]interface{}, error) {
	logCtx := logrus.WithField("user_id", req.UserID)

	tokens := make(map[domain.MessagingChannel]interface{}, len(channels))
	for _, ch := range channels {
		c, ok := s.channels.Get(ch)
		if !ok || c.Tokens == nil {
			logCtx.WithField("channel", ch.String()).Warn("IM token service is not configured")
			if strict {
				return nil, fmt.Errorf("%w: %s token is null", ErrProviderError, ch.String())
			}
			continue
		}
		token, err := c.Tokens.IssueToken(ctx, req)
		if err != nil || token == nil {
			logCtx.WithField("channel", ch.String()).WithError(err).Error("Failed to issue IM token")
			if strict {
				return nil, fmt.Errorf("%w: %s token is null", ErrProviderError, ch.String())
			}
			continue
		}
		tokens[ch] = token
	}
	return tokens, nil
}

// RtcAuthToken 入会 token，24 小时有效
func (s *ClassService) RtcAuthToken(classID, userID string) *dto.RtcAuthToken {
	ts := s.now().Add(24 * time.Hour).Unix()
	return &dto.RtcAuthToken{
		AuthToken: s.links.AuthToken(classID, userID, ts),
		Timestamp: ts,
	}
}

// WhiteboardAuthInfo 白板鉴权信息
func (s *ClassService) WhiteboardAuthInfo() (*dto.BoardAuth, error) {
	if s.whiteboard == nil {
		return nil, fmt.Errorf("%w: whiteboard is not configured", ErrProviderError)
	}
	return s.whiteboard.AuthInfo(), nil
}

// Statistics 按群组 ID 查询统计信息
func (s *ClassService) Statistics(ctx context.Context, groupID string) (*dto.Metrics, error) {
	if s.metrics == nil {
		return nil, fmt.Errorf("%w: group metrics is not configured", ErrProviderError)
	}
	m, err := s.metrics.Metrics(ctx, groupID)
	if err != nil {
		logrus.WithField("group_id", groupID).WithError(err).Error("Failed to get group statistics")
		return nil, ErrProviderError
	}
	return m, nil
}
