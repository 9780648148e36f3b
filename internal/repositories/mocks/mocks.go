// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockFrameworkRepository is a mock implementation of FrameworkRepository
type MockFrameworkRepository struct {
	mock.Mock
}

func (m *MockFrameworkRepository) Create(ctx context.Context, framework *models.Framework) error {
	args := m.Called(ctx, framework)
	return args.Error(0)
}

func (m *MockFrameworkRepository) Update(ctx context.Context, framework *models.Framework) error {
	args := m.Called(ctx, framework)
	return args.Error(0)
}

func (m *MockFrameworkRepository) GetByID(ctx context.Context, tenantID string, id uint) (*models.Framework, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Framework), args.Error(1)
}

func (m *MockFrameworkRepository) GetByName(ctx context.Context, tenantID, name string) (*models.Framework, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Framework), args.Error(1)
}

func (m *MockFrameworkRepository) List(ctx context.Context, tenantID string, filters repositories.FrameworkFilters) ([]*models.Framework, int64, error) {
	args := m.Called(ctx, tenantID, filters)
	return args.Get(0).([]*models.Framework), args.Get(1).(int64), args.Error(2)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByFramework(ctx context.Context, frameworkID uint) ([]*models.Question, error) {
	args := m.Called(ctx, frameworkID)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountByFramework(ctx context.Context, frameworkID uint) (int64, error) {
	args := m.Called(ctx, frameworkID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) ReplaceForFramework(ctx context.Context, frameworkID uint, questions []*models.Question) error {
	args := m.Called(ctx, frameworkID, questions)
	return args.Error(0)
}

// MockResultRepository is a mock implementation of ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, result *models.ClassificationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByID(ctx context.Context, tenantID string, id uint) (*models.ClassificationResult, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClassificationResult), args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, tenantID string, filters repositories.ResultFilters) ([]*models.ClassificationResult, int64, error) {
	args := m.Called(ctx, tenantID, filters)
	return args.Get(0).([]*models.ClassificationResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepository) GetDistribution(ctx context.Context, tenantID string, frameworkID uint) (*repositories.DistributionStats, error) {
	args := m.Called(ctx, tenantID, frameworkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.DistributionStats), args.Error(1)
}

// MockReportContentRepository is a mock implementation of ReportContentRepository
type MockReportContentRepository struct {
	mock.Mock
}

func (m *MockReportContentRepository) Upsert(ctx context.Context, content *models.ReportContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockReportContentRepository) GetByLookupKey(ctx context.Context, frameworkID uint, lookupKey string) (*models.ReportContent, error) {
	args := m.Called(ctx, frameworkID, lookupKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportContent), args.Error(1)
}

// MockRepository bundles the individual mocks behind repositories.Repository
type MockRepository struct {
	Frameworks     *MockFrameworkRepository
	Questions      *MockQuestionRepository
	Results        *MockResultRepository
	ReportContents *MockReportContentRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		Frameworks:     new(MockFrameworkRepository),
		Questions:      new(MockQuestionRepository),
		Results:        new(MockResultRepository),
		ReportContents: new(MockReportContentRepository),
	}
}

func (m *MockRepository) Framework() repositories.FrameworkRepository         { return m.Frameworks }
func (m *MockRepository) Question() repositories.QuestionRepository           { return m.Questions }
func (m *MockRepository) Result() repositories.ResultRepository               { return m.Results }
func (m *MockRepository) ReportContent() repositories.ReportContentRepository { return m.ReportContents }

// AssertExpectations checks every underlying mock
func (m *MockRepository) AssertExpectations(t mock.TestingT) {
	m.Frameworks.AssertExpectations(t)
	m.Questions.AssertExpectations(t)
	m.Results.AssertExpectations(t)
	m.ReportContents.AssertExpectations(t)
}
