package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

const (
	defaultPageNum  = 1
	defaultPageSize = 20
)

// JoinInput 加入课堂的参数
type JoinInput struct {
	ClassID    string
	UserID     string
	UserName   string
	UserAvatar string
	Identity   domain.Identity // 客户端申请的身份，只有助教有意义
}

// MemberService 负责课堂成员的加入、离开、踢出和查询。
type MemberService struct {
	roomRepo   repository.RoomRepository
	memberRepo repository.MemberRepository
	permitRepo repository.AssistantPermitRepository
	locks      repository.LockRepository
	bans       *BanList
	seat       *AssistantSeat
	notifier   Notifier
	lockWait   time.Duration
	now        func() time.Time
}

// NewMemberService 创建 MemberService 实例。lockWait 为 0 时使用 DefaultLockWait。
func NewMemberService(
	roomRepo repository.RoomRepository,
	memberRepo repository.MemberRepository,
	banRepo repository.BanRepository,
	permitRepo repository.AssistantPermitRepository,
	locks repository.LockRepository,
	notifier Notifier,
	lockWait time.Duration,
) *MemberService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for MemberService")
	}
	if memberRepo == nil {
		panic("MemberRepository cannot be nil for MemberService")
	}
	if permitRepo == nil {
		panic("AssistantPermitRepository cannot be nil for MemberService")
	}
	if locks == nil {
		panic("LockRepository cannot be nil for MemberService")
	}
	if notifier == nil {
		panic("Notifier cannot be nil for MemberService")
	}
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &MemberService{
		roomRepo:   roomRepo,
		memberRepo: memberRepo,
		permitRepo: permitRepo,
		locks:      locks,
		bans:       NewBanList(banRepo),
		seat:       NewAssistantSeat(memberRepo),
		notifier:   notifier,
		lockWait:   lockWait,
		now:        time.Now,
	}
}

// findRoom 查找课堂，不存在时返回 ErrClassNotFound
func (s *MemberService) findRoom(ctx context.Context, classID string) (*domain.Room, error) {
	return findRoom(ctx, s.roomRepo, classID)
}

func findRoom(ctx context.Context, repo repository.RoomRepository, classID string) (*domain.Room, error) {
	logCtx := logrus.WithField("class_id", classID)
	room, err := repo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Class not found")
			return nil, ErrClassNotFound
		}
		logCtx.WithError(err).Error("Failed to find class")
		return nil, ErrInternalServer
	}
	if room == nil {
		return nil, ErrClassNotFound
	}
	return room, nil
}

// findMember 查找成员记录，不存在时返回 nil
func (s *MemberService) findMember(ctx context.Context, classID, userID string) (*domain.Member, error) {
	m, err := s.memberRepo.FindByClassAndUser(ctx, classID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// Join 加入课堂。已在课堂中时直接返回当前记录，不产生写入和消息。
func (s *MemberService) Join(ctx context.Context, in JoinInput) (*dto.ClassMember, error) {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": in.ClassID, "user_id": in.UserID})

	// 1. 课堂必须存在
	room, err := s.findRoom(ctx, in.ClassID)
	if err != nil {
		return nil, err
	}

	var (
		joined  *domain.Member
		changed bool
	)
	err = withLock(ctx, s.locks, userLockKey(in.ClassID, in.UserID), s.lockWait, func() error {
		// 2. 黑名单
		banned, err := s.bans.IsBanned(ctx, in.ClassID, in.UserID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to check black list")
			return ErrInternalServer
		}
		if banned {
			logCtx.Warn("Join rejected: user is in black list")
			return ErrInBlackList
		}

		// 3. 已在课堂中
		existing, err := s.findMember(ctx, in.ClassID, in.UserID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to find member")
			return ErrInternalServer
		}
		if existing.IsActive() {
			joined = existing
			return nil
		}

		// 4. 身份
		identity := ResolveIdentity(room.TeacherID, in.UserID, in.Identity)
		member := &domain.Member{
			ClassID:    in.ClassID,
			UserID:     in.UserID,
			UserName:   in.UserName,
			UserAvatar: in.UserAvatar,
			Identity:   identity,
			Status:     domain.MemberStatusNormal,
		}
		if existing != nil {
			member.ID = existing.ID
		}

		save := func() error {
			now := s.now()
			member.CreatedAt = now
			member.UpdatedAt = now
			if err := s.memberRepo.Save(ctx, member); err != nil {
				logCtx.WithError(err).Error("Failed to save member")
				return ErrDBException
			}
			joined = member
			changed = true
			return nil
		}
		if identity != domain.IdentityAssistant {
			return save()
		}

		// 助教: 需要权限配置且席位空闲
		return withLock(ctx, s.locks, assistantLockKey(in.ClassID), s.lockWait, func() error {
			if _, err := s.permitRepo.FindByClassID(ctx, in.ClassID); err != nil {
				if errors.Is(err, repository.ErrPermitNotFound) {
					logCtx.Warn("Join rejected: class has no assistant permit")
					return ErrClassNotAssistantPermit
				}
				logCtx.WithError(err).Error("Failed to find assistant permit")
				return ErrInternalServer
			}
			occupied, err := s.seat.HasActiveAssistant(ctx, in.ClassID, in.UserID)
			if err != nil {
				logCtx.WithError(err).Error("Failed to find class assistant")
				return ErrInternalServer
			}
			if occupied {
				logCtx.Warn("Join rejected: class already has an assistant")
				return ErrClassHasAssistant
			}
			return save()
		})
	})
	if err != nil {
		return nil, err
	}

	view := dto.NewClassMember(joined)
	if changed {
		s.notifier.Notify(ctx, room, room.Channels(), domain.MessageTypeJoin, view)
		logCtx.WithField("identity", joined.Identity).Info("User joined class")
	}
	return view, nil
}

// Leave 离开课堂
func (s *MemberService) Leave(ctx context.Context, classID, userID string) error {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": classID, "user_id": userID})

	room, err := s.findRoom(ctx, classID)
	if err != nil {
		return err
	}

	var member *domain.Member
	err = withLock(ctx, s.locks, userLockKey(classID, userID), s.lockWait, func() error {
		m, err := s.findMember(ctx, classID, userID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to find member")
			return ErrInternalServer
		}
		if !m.IsActive() {
			logCtx.Warn("Leave rejected: user is not in class")
			return ErrNotInClass
		}
		if err := s.memberRepo.UpdateStatus(ctx, classID, userID, domain.MemberStatusExit); err != nil {
			logCtx.WithError(err).Error("Failed to update member status to exit")
			return ErrDBException
		}
		m.Status = domain.MemberStatusExit
		member = m
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, room, room.Channels(), domain.MessageTypeExit, dto.NewClassMember(member))
	logCtx.Info("User left class")
	return nil
}

// Kick 将用户踢出课堂并加入黑名单。
// channels 为空时向课堂开通的全部通道发送消息。
func (s *MemberService) Kick(ctx context.Context, classID, userID string, channels []domain.MessagingChannel) error {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": classID, "user_id": userID})

	room, err := s.findRoom(ctx, classID)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		channels = room.Channels()
	}

	var member *domain.Member
	err = withLock(ctx, s.locks, userLockKey(classID, userID), s.lockWait, func() error {
		if err := s.bans.Ban(ctx, classID, userID); err != nil {
			logCtx.WithError(err).Error("Failed to save black list entry")
			return ErrDBException
		}
		err := s.memberRepo.UpdateStatus(ctx, classID, userID, domain.MemberStatusKick)
		if err != nil {
			// 用户从未加入过: 只写黑名单
			if errors.Is(err, repository.ErrMemberNotFound) {
				return nil
			}
			logCtx.WithError(err).Error("Failed to update member status to kick")
			return ErrDBException
		}
		m, err := s.findMember(ctx, classID, userID)
		if err != nil || m == nil {
			m = &domain.Member{ClassID: classID, UserID: userID}
		}
		m.Status = domain.MemberStatusKick
		member = m
		return nil
	})
	if err != nil {
		return err
	}

	if member != nil {
		s.notifier.Notify(ctx, room, channels, domain.MessageTypeKick, dto.NewClassMember(member))
	}
	logCtx.Info("User kicked from class")
	return nil
}

// List 分页查询课堂成员
func (s *MemberService) List(ctx context.Context, query repository.MemberQuery) (*dto.MemberPage, error) {
	logCtx := logrus.WithField("class_id", query.ClassID)

	if _, err := s.findRoom(ctx, query.ClassID); err != nil {
		return nil, err
	}
	if query.PageNum <= 0 {
		query.PageNum = defaultPageNum
	}
	if query.PageSize <= 0 {
		query.PageSize = defaultPageSize
	}

	members, total, err := s.memberRepo.Page(ctx, query)
	if err != nil {
		logCtx.WithError(err).Error("Failed to page members")
		return nil, ErrInternalServer
	}
	page := &dto.MemberPage{Total: total, Members: make([]*dto.ClassMember, 0, len(members))}
	for i := range members {
		page.Members = append(page.Members, dto.NewClassMember(&members[i]))
	}
	return page, nil
}

// AssistantMember 返回课堂当前在线的助教，没有时返回 nil
func (s *MemberService) AssistantMember(ctx context.Context, classID string) (*dto.ClassMember, error) {
	m, err := s.seat.Current(ctx, classID)
	if err != nil {
		logrus.WithField("class_id", classID).WithError(err).Error("Failed to find class assistant")
		return nil, ErrInternalServer
	}
	return dto.NewClassMember(m), nil
}

// RemoveAssistant 删除课堂的助教记录，助教在线时先通知其离开。
func (s *MemberService) RemoveAssistant(ctx context.Context, classID string, channels []domain.MessagingChannel) error {
	logCtx := logrus.WithField("class_id", classID)

	room, err := s.findRoom(ctx, classID)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		channels = room.Channels()
	}

	return withLock(ctx, s.locks, assistantLockKey(classID), s.lockWait, func() error {
		m, err := s.memberRepo.FindAssistant(ctx, classID, domain.MemberStatusAll)
		if err != nil {
			if errors.Is(err, repository.ErrMemberNotFound) {
				return nil
			}
			logCtx.WithError(err).Error("Failed to find class assistant")
			return ErrInternalServer
		}
		if m.IsActive() {
			exited := *m
			exited.Status = domain.MemberStatusExit
			s.notifier.Notify(ctx, room, channels, domain.MessageTypeExit, dto.NewClassMember(&exited))
		}
		if err := s.memberRepo.Delete(ctx, m.ID); err != nil {
			logCtx.WithError(err).Error("Failed to delete class assistant")
			return ErrDBException
		}
		logCtx.WithField("user_id", m.UserID).Info("Class assistant removed")
		return nil
	})
}
