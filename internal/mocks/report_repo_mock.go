package mocks

import (
	"context"
	"time"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a mock implementation of core.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

var _ core.ReportRepository = (*MockReportRepository)(nil)

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	args := m.Called(ctx, filter)
	var r0 []models.Report
	if v := args.Get(0); v != nil {
		r0 = v.([]models.Report)
	}
	return r0, args.Int(1), args.Error(2)
}

func (m *MockReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]models.Report, error) {
	args := m.Called(ctx, reporterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportRepository) HasOpen(ctx context.Context, reporterID string, targetType models.ReportTargetType, targetID string) (bool, error) {
	args := m.Called(ctx, reporterID, targetType, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportRepository) Resolve(ctx context.Context, id string, status models.ReportStatus, note string, adminID string, at time.Time) error {
	return m.Called(ctx, id, status, note, adminID, at).Error(0)
}
