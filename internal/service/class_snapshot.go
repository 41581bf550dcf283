package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
)

const shadowSuffix = "_shadow"

// snapshot 组装课堂详情。各项外部信息查询失败时只省略对应字段。
func (s *ClassService) snapshot(ctx context.Context, room *domain.Room, userID string) *dto.RoomSnapshot {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": room.ID, "user_id": userID})

	out := dto.NewRoomSnapshot(room)
	out.LinkInfo = s.links.Link(room.MeetingID, userID, room.TeacherID)
	out.ShadowLink = s.links.Link(room.MeetingID, userID+shadowSuffix, room.TeacherID+shadowSuffix)

	if s.vod != nil {
		title := s.links.CameraStreamName(room.MeetingID, room.TeacherID)
		mediaID, err := s.vod.SearchByTitle(ctx, title)
		if err != nil {
			logCtx.WithError(err).Warn("Failed to search vod media")
		} else if mediaID != "" {
			info, err := s.vod.PlayInfo(ctx, mediaID)
			if err != nil {
				logCtx.WithError(err).Warn("Failed to get vod play info")
			} else {
				out.VodInfo = info
			}
		}
	}

	if s.metrics != nil {
		if m, err := s.metrics.Metrics(ctx, room.ID); err != nil {
			logCtx.WithError(err).Warn("Failed to get group metrics")
		} else {
			out.Metrics = m
		}
		if status, err := s.metrics.UserMuteStatus(ctx, room.ID, room.TeacherID); err != nil {
			logCtx.WithError(err).Warn("Failed to get teacher mute status")
		} else {
			out.UserStatus = status
		}
	}

	if m, err := s.seat.Current(ctx, room.ID); err != nil {
		logCtx.WithError(err).Warn("Failed to find class assistant")
	} else {
		out.Assistant = dto.NewClassMember(m)
	}
	return out
}

// List 按创建时间倒序分页，每一行都以老师视角组装详情。
// 详情在有界的协程池中并发组装，超时的行被省略，其余保持原有顺序。
func (s *ClassService) List(ctx context.Context, pageNum, pageSize int) (*dto.RoomPage, error) {
	if pageNum <= 0 {
		pageNum = defaultPageNum
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	logCtx := logrus.WithFields(logrus.Fields{"page_num": pageNum, "page_size": pageSize})

	rooms, total, err := s.roomRepo.Page(ctx, pageNum, pageSize)
	if err != nil {
		logCtx.WithError(err).Error("Failed to page classes")
		return nil, ErrInternalServer
	}

	results := make([]*dto.RoomSnapshot, len(rooms))
	p := pool.New().WithMaxGoroutines(s.opts.ListConcurrency)
	for i := range rooms {
		i := i
		p.Go(func() {
			taskCtx, cancel := context.WithTimeout(ctx, s.opts.ListTaskTimeout)
			defer cancel()
			snap := s.snapshot(taskCtx, &rooms[i], rooms[i].TeacherID)
			if err := taskCtx.Err(); err != nil {
				logCtx.WithField("class_id", rooms[i].ID).WithError(fmt.Errorf("compose class snapshot: %w", err)).Warn("Class omitted from list")
				return
			}
			results[i] = snap
		})
	}
	p.Wait()

	list := make([]*dto.RoomSnapshot, 0, len(results))
	for _, r := range results {
		if r != nil {
			list = append(list, r)
		}
	}
	return dto.NewRoomPage(list, total, pageSize, pageNum), nil
}
