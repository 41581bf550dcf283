package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// CheckInService 课堂签到
type CheckInService struct {
	repo repository.CheckInRepository
	now  func() time.Time
}

func NewCheckInService(repo repository.CheckInRepository) *CheckInService {
	if repo == nil {
		panic("CheckInRepository cannot be nil for CheckInService")
	}
	return &CheckInService{repo: repo, now: time.Now}
}

func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func (s *CheckInService) toDTO(c *domain.CheckIn) *dto.CheckIn {
	return &dto.CheckIn{
		ID:        c.ID,
		StartTime: dto.NewTime(c.StartTime),
		NowTime:   dto.NewTime(s.now()),
		Duration:  c.Duration,
	}
}

// Set 发起签到。已有进行中的签到时返回 ErrAlreadyCheckIn。
func (s *CheckInService) Set(ctx context.Context, classID, userID string, duration int) (*dto.CheckIn, error) {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": classID, "user_id": userID})

	running, err := s.running(ctx, classID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		logCtx.WithField("check_in_id", running.ID).Warn("Check in is already running")
		return nil, ErrAlreadyCheckIn
	}

	now := s.now()
	c := &domain.CheckIn{
		ID:        newID(),
		ClassID:   classID,
		Creator:   userID,
		StartTime: now,
		Duration:  duration,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		logCtx.WithError(err).Error("Failed to save check in")
		return nil, ErrDBException
	}
	logCtx.WithField("check_in_id", c.ID).Info("Check in started")
	return s.toDTO(c), nil
}

func (s *CheckInService) running(ctx context.Context, classID string) (*domain.CheckIn, error) {
	list, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		logrus.WithField("class_id", classID).WithError(err).Error("Failed to list check ins")
		return nil, ErrInternalServer
	}
	now := s.now()
	for i := range list {
		if list[i].IsRunning(now) {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Running 进行中的签到，没有时返回 nil
func (s *CheckInService) Running(ctx context.Context, classID string) (*dto.CheckIn, error) {
	c, err := s.running(ctx, classID)
	if err != nil || c == nil {
		return nil, err
	}
	return s.toDTO(c), nil
}

// All 课堂的全部签到，按开始时间正序
func (s *CheckInService) All(ctx context.Context, classID string) ([]*dto.CheckIn, error) {
	list, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		logrus.WithField("class_id", classID).WithError(err).Error("Failed to list check ins")
		return nil, ErrInternalServer
	}
	out := make([]*dto.CheckIn, 0, len(list))
	for i := range list {
		out = append(out, s.toDTO(&list[i]))
	}
	return out, nil
}

func (s *CheckInService) find(ctx context.Context, checkInID string) (*domain.CheckIn, error) {
	c, err := s.repo.FindByID(ctx, checkInID)
	if err != nil {
		if errors.Is(err, repository.ErrCheckInNotFound) {
			return nil, ErrNotFound
		}
		logrus.WithField("check_in_id", checkInID).WithError(err).Error("Failed to find check in")
		return nil, ErrInternalServer
	}
	return c, nil
}

// CheckIn 用户签到
func (s *CheckInService) CheckIn(ctx context.Context, checkInID, userID string) error {
	logCtx := logrus.WithFields(logrus.Fields{"check_in_id": checkInID, "user_id": userID})

	if _, err := s.find(ctx, checkInID); err != nil {
		return err
	}
	now := s.now()
	err := s.repo.CreateRecord(ctx, &domain.CheckInRecord{
		ID:        newID(),
		CheckInID: checkInID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("User already checked in")
			return ErrAlreadyCheckIn
		}
		logCtx.WithError(err).Error("Failed to save check in record")
		return ErrDBException
	}
	return nil
}

func recordDTO(r *domain.CheckInRecord, classID string) *dto.CheckInRecord {
	return &dto.CheckInRecord{
		CheckInID: r.CheckInID,
		ClassID:   classID,
		UserID:    r.UserID,
		Time:      dto.NewTime(r.CreatedAt),
	}
}

// Records 签到记录，按签到时间正序。签到不存在时返回空列表。
func (s *CheckInService) Records(ctx context.Context, checkInID string) ([]*dto.CheckInRecord, error) {
	c, err := s.find(ctx, checkInID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*dto.CheckInRecord{}, nil
		}
		return nil, err
	}
	records, err := s.repo.ListRecords(ctx, checkInID)
	if err != nil {
		logrus.WithField("check_in_id", checkInID).WithError(err).Error("Failed to list check in records")
		return nil, ErrInternalServer
	}
	out := make([]*dto.CheckInRecord, 0, len(records))
	for i := range records {
		out = append(out, recordDTO(&records[i], c.ClassID))
	}
	return out, nil
}

// RecordOf 用户的签到记录，不存在时返回 ErrNotFound
func (s *CheckInService) RecordOf(ctx context.Context, checkInID, userID string) (*dto.CheckInRecord, error) {
	c, err := s.find(ctx, checkInID)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.FindRecord(ctx, checkInID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		logrus.WithField("check_in_id", checkInID).WithError(err).Error("Failed to find check in record")
		return nil, ErrInternalServer
	}
	return recordDTO(r, c.ClassID), nil
}
