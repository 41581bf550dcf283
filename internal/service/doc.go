package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// DocService 课堂课件
type DocService struct {
	repo repository.DocRepository
	now  func() time.Time
}

func NewDocService(repo repository.DocRepository) *DocService {
	if repo == nil {
		panic("DocRepository cannot be nil for DocService")
	}
	return &DocService{repo: repo, now: time.Now}
}

func (s *DocService) create(ctx context.Context, classID string, info dto.DocInfo) (*domain.Doc, error) {
	now := s.now()
	doc := &domain.Doc{
		ClassID:    classID,
		DocID:      info.DocID,
		ServerType: domain.DocServerNetEase,
		DocInfos:   info.DocInfos,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return doc, s.repo.Create(ctx, doc)
}

// Add 添加课件，docID 已存在时返回 ErrInvalidParam
func (s *DocService) Add(ctx context.Context, classID string, info dto.DocInfo) (*dto.Doc, error) {
	logCtx := logrus.WithFields(logrus.Fields{"class_id": classID, "doc_id": info.DocID})

	doc, err := s.create(ctx, classID, info)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Doc already exists")
			return nil, ErrInvalidParam
		}
		logCtx.WithError(err).Error("Failed to save doc")
		return nil, ErrDBException
	}
	return dto.NewDoc(doc), nil
}

// AddBatch 批量添加，跳过已存在或保存失败的课件，返回实际添加的条目
func (s *DocService) AddBatch(ctx context.Context, classID string, infos []dto.DocInfo) []dto.DocInfo {
	added := make([]dto.DocInfo, 0, len(infos))
	for _, info := range infos {
		if _, err := s.create(ctx, classID, info); err != nil {
			if !errors.Is(err, repository.ErrDuplicateEntry) {
				logrus.WithFields(logrus.Fields{"class_id": classID, "doc_id": info.DocID}).WithError(err).Error("Failed to save doc")
			}
			continue
		}
		added = append(added, info)
	}
	return added
}

// Delete 删除课件，返回是否删除了数据
func (s *DocService) Delete(ctx context.Context, classID, docID string) (bool, error) {
	ok, err := s.repo.Delete(ctx, classID, docID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"class_id": classID, "doc_id": docID}).WithError(err).Error("Failed to delete doc")
		return false, ErrDBException
	}
	return ok, nil
}

// DeleteBatch docIDs 以逗号分隔，返回实际删除的 ID
func (s *DocService) DeleteBatch(ctx context.Context, classID, docIDs string) ([]string, error) {
	deleted := make([]string, 0)
	for _, id := range strings.Split(docIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ok, err := s.Delete(ctx, classID, id)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}

// Query 课堂的全部课件
func (s *DocService) Query(ctx context.Context, classID string) ([]*dto.Doc, error) {
	docs, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		logrus.WithField("class_id", classID).WithError(err).Error("Failed to list docs")
		return nil, ErrInternalServer
	}
	out := make([]*dto.Doc, 0, len(docs))
	for i := range docs {
		out = append(out, dto.NewDoc(&docs[i]))
	}
	return out, nil
}
