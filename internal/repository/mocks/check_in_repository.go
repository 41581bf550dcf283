package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// CheckInRepository 是 repository.CheckInRepository 的 mock
type CheckInRepository struct {
	mock.Mock
}

var _ repository.CheckInRepository = (*CheckInRepository)(nil)

func (m *CheckInRepository) Create(ctx context.Context, checkIn *domain.CheckIn) error {
	args := m.Called(ctx, checkIn)
	return args.Error(0)
}

func (m *CheckInRepository) FindByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	args := m.Called(ctx, id)
	checkIn, _ := args.Get(0).(*domain.CheckIn)
	return checkIn, args.Error(1)
}

func (m *CheckInRepository) ListByClass(ctx context.Context, classID string) ([]domain.CheckIn, error) {
	args := m.Called(ctx, classID)
	list, _ := args.Get(0).([]domain.CheckIn)
	return list, args.Error(1)
}

func (m *CheckInRepository) CreateRecord(ctx context.Context, record *domain.CheckInRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *CheckInRepository) FindRecord(ctx context.Context, checkInID, userID string) (*domain.CheckInRecord, error) {
	args := m.Called(ctx, checkInID, userID)
	record, _ := args.Get(0).(*domain.CheckInRecord)
	return record, args.Error(1)
}

func (m *CheckInRepository) ListRecords(ctx context.Context, checkInID string) ([]domain.CheckInRecord, error) {
	args := m.Called(ctx, checkInID)
	records, _ := args.Get(0).([]domain.CheckInRecord)
	return records, args.Error(1)
}

// DocRepository 是 repository.DocRepository 的 mock
type DocRepository struct {
	mock.Mock
}

var _ repository.DocRepository = (*DocRepository)(nil)

func (m *DocRepository) Find(ctx context.Context, classID, docID string) (*domain.Doc, error) {
	args := m.Called(ctx, classID, docID)
	doc, _ := args.Get(0).(*domain.Doc)
	return doc, args.Error(1)
}

func (m *DocRepository) Create(ctx context.Context, doc *domain.Doc) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *DocRepository) Delete(ctx context.Context, classID, docID string) (bool, error) {
	args := m.Called(ctx, classID, docID)
	return args.Bool(0), args.Error(1)
}

func (m *DocRepository) ListByClass(ctx context.Context, classID string) ([]domain.Doc, error) {
	args := m.Called(ctx, classID)
	docs, _ := args.Get(0).([]domain.Doc)
	return docs, args.Error(1)
}
