package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// GormDocRepository 是 DocRepository 接口的 GORM 实现
type GormDocRepository struct {
	db *gorm.DB
}

func NewGormDocRepository(db *gorm.DB) *GormDocRepository {
	if db == nil {
		panic("database connection cannot be nil for GormDocRepository")
	}
	return &GormDocRepository{db: db}
}

func (r *GormDocRepository) Find(ctx context.Context, classID, docID string) (*domain.Doc, error) {
	var doc domain.Doc
	err := r.db.WithContext(ctx).Where("class_id = ? AND doc_id = ?", classID, docID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find doc (class: %s, doc: %s): %w", classID, docID, err)
	}
	return &doc, nil
}

func (r *GormDocRepository) Create(ctx context.Context, doc *domain.Doc) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create doc (class: %s, doc: %s): %w", doc.ClassID, doc.DocID, err)
	}
	return nil
}

func (r *GormDocRepository) Delete(ctx context.Context, classID, docID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("class_id = ? AND doc_id = ?", classID, docID).Delete(&domain.Doc{})
	if result.Error != nil {
		return false, fmt.Errorf("gorm: delete doc (class: %s, doc: %s): %w", classID, docID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormDocRepository) ListByClass(ctx context.Context, classID string) ([]domain.Doc, error) {
	var docs []domain.Doc
	if err := r.db.WithContext(ctx).Where("class_id = ?", classID).Order("created_at asc").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("gorm: list docs of class %s: %w", classID, err)
	}
	return docs, nil
}
