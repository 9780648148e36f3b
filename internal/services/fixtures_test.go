package services

import (
	"io"
	"log/slog"

	"github.com/SAP-F-2025/classification-service/internal/events"
	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories/mocks"
	"github.com/SAP-F-2025/classification-service/internal/validator"
	"github.com/prometheus/client_golang/prometheus"
)

const testTenant = "tenant-a"

func points(v float64) *float64 { return &v }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFramework() *models.Framework {
	return &models.Framework{
		ID:       7,
		TenantID: testTenant,
		Name:     "Default",
		Config: models.CategoryConfig{
			Frequencies: []models.FrequencyDefinition{
				{Code: models.FrequencyA, Name: "Dynamo"},
				{Code: models.FrequencyB, Name: "Blaze"},
			},
			Profiles: []models.ProfileDefinition{
				{Code: "P1", Name: "Creator", PrimaryFrequency: models.FrequencyA},
				{Code: "P2", Name: "Supporter", PrimaryFrequency: models.FrequencyB},
			},
		},
	}
}

func testQuestions() []*models.Question {
	return []*models.Question{
		{ID: 1, FrameworkID: 7, Order: 1, Category: models.QuestionScored, ProfileMap: models.WeightTable{
			{Points: points(10), ProfileCode: "P1"},
			{Points: points(10), ProfileCode: "P2"},
		}},
		{ID: 2, FrameworkID: 7, Order: 2, Category: models.QuestionScored, Weights: models.WeightTable{
			{Points: points(5), FrequencyCode: "A"},
			{Points: points(5), FrequencyCode: "B"},
		}},
		{ID: 3, FrameworkID: 7, Order: 3, Category: models.QuestionQualitative},
	}
}

type testEnv struct {
	repo      *mocks.MockRepository
	publisher *events.MockEventPublisher
	metrics   *Metrics
	service   ClassificationService
	importer  ImportExportService
}

func newTestEnv() *testEnv {
	repo := mocks.NewMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	metrics := MustNewMetrics(prometheus.NewRegistry())

	manager := NewServiceManager(ServiceDeps{
		Repo:      repo,
		Publisher: publisher,
		Validator: validator.New(),
		Metrics:   metrics,
		Logger:    testLogger(),
	})

	return &testEnv{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		service:   manager.Classification(),
		importer:  manager.ImportExport(),
	}
}

// expectSnapshot makes the direct source find the test framework.
func (e *testEnv) expectSnapshot(questions []*models.Question) {
	e.repo.Frameworks.On("GetByID", anyCtx, testTenant, uint(7)).Return(testFramework(), nil)
	e.repo.Questions.On("GetByFramework", anyCtx, uint(7)).Return(questions, nil)
}
