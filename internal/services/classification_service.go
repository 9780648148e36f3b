package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/events"
	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"github.com/SAP-F-2025/classification-service/internal/scoring"
	"github.com/SAP-F-2025/classification-service/internal/validator"
	"github.com/google/uuid"
)

// ClassificationService scores submissions and serves stored results.
type ClassificationService interface {
	// Score classifies a submission, persists the result and publishes a
	// classification.completed event.
	Score(ctx context.Context, tenantID string, req *ScoreRequest) (*ScoreResponse, error)
	// Preview classifies without persisting or publishing.
	Preview(ctx context.Context, tenantID string, req *ScoreRequest) (*PreviewResponse, error)

	GetResult(ctx context.Context, tenantID string, id uint) (*models.ClassificationResult, error)
	ListResults(ctx context.Context, tenantID string, filters repositories.ResultFilters) ([]*models.ClassificationResult, int64, error)
	GetReport(ctx context.Context, tenantID string, resultID uint) (*ReportResponse, error)
	GetDistribution(ctx context.Context, tenantID string, frameworkID uint) (*repositories.DistributionStats, error)
}

// ===== REQUEST / RESPONSE TYPES =====

type ScoreRequest struct {
	FrameworkID   uint                  `json:"framework_id" validate:"required"`
	SubmissionRef string                `json:"submission_ref" validate:"omitempty,max=100"`
	RespondentRef *string               `json:"respondent_ref" validate:"omitempty,max=100"`
	Answers       []models.AnswerRecord `json:"answers" validate:"max=1000"`
}

type ScoreResponse struct {
	Result  *models.ClassificationResult  `json:"result"`
	Dropped []scoring.DroppedContribution `json:"dropped"`
}

type PreviewResponse struct {
	FrameworkID    uint                          `json:"framework_id"`
	Classification models.Classification         `json:"classification"`
	AnsweredCount  int                           `json:"answered_count"`
	ScoredCount    int                           `json:"scored_count"`
	Dropped        []scoring.DroppedContribution `json:"dropped"`
}

type ReportResponse struct {
	Result    *models.ClassificationResult `json:"result"`
	LookupKey string                       `json:"lookup_key"`
	Content   *models.ReportContent        `json:"content"`
}

type classificationService struct {
	repo      repositories.Repository
	source    FrameworkSource
	publisher events.EventPublisher
	validator *validator.Validator
	metrics   *Metrics
	logger    *ServiceLogger
}

func NewClassificationService(
	repo repositories.Repository,
	source FrameworkSource,
	publisher events.EventPublisher,
	validator *validator.Validator,
	metrics *Metrics,
	logger *slog.Logger,
) ClassificationService {
	return &classificationService{
		repo:      repo,
		source:    source,
		publisher: publisher,
		validator: validator,
		metrics:   metrics,
		logger:    NewServiceLogger(logger, LogConfig{Service: "classification-service", Component: "classification"}),
	}
}

// ===== SCORING =====

func (s *classificationService) Score(ctx context.Context, tenantID string, req *ScoreRequest) (*ScoreResponse, error) {
	if req == nil {
		return nil, ErrBadRequest
	}
	op := s.logger.WithOperation(ctx, "score_submission", tenantID)

	result, dropped, err := s.score(ctx, tenantID, req)
	if err != nil {
		s.metrics.ObserveScoring("score", "error", op.Elapsed())
		op.LogResult(req.FrameworkID, "framework", err)
		return nil, err
	}

	if err := s.repo.Result().Create(ctx, result); err != nil {
		err = fmt.Errorf("failed to save classification result: %w", err)
		s.metrics.ObserveScoring("score", "error", op.Elapsed())
		op.LogResult(req.FrameworkID, "framework", err)
		return nil, err
	}

	s.metrics.ObserveScoring("score", "success", op.Elapsed())
	s.metrics.AddDropped(dropped)
	s.metrics.IncPrimaryFrequency(result.PrimaryFrequency)
	s.logger.LogDroppedContributions(ctx, tenantID, req.FrameworkID, dropped)

	s.publish(ctx, events.NewClassificationCompletedEvent(result, len(dropped)), result.ID)

	op.LogResult(result.ID, "classification_result", nil)
	return &ScoreResponse{Result: result, Dropped: nonNilDrops(dropped)}, nil
}

func (s *classificationService) Preview(ctx context.Context, tenantID string, req *ScoreRequest) (*PreviewResponse, error) {
	if req == nil {
		return nil, ErrBadRequest
	}
	op := s.logger.WithOperation(ctx, "preview_submission", tenantID)

	result, dropped, err := s.score(ctx, tenantID, req)
	if err != nil {
		s.metrics.ObserveScoring("preview", "error", op.Elapsed())
		op.LogResult(req.FrameworkID, "framework", err)
		return nil, err
	}

	s.metrics.ObserveScoring("preview", "success", op.Elapsed())
	s.logger.Debug(ctx, "Preview scored", "framework_id", req.FrameworkID, "dropped_count", len(dropped))

	op.LogResult(req.FrameworkID, "framework", nil)
	return &PreviewResponse{
		FrameworkID:    req.FrameworkID,
		Classification: result.Classification,
		AnsweredCount:  result.AnsweredCount,
		ScoredCount:    result.ScoredCount,
		Dropped:        nonNilDrops(dropped),
	}, nil
}

// score validates the request, loads the framework and runs the engine. The
// returned result is not yet persisted.
func (s *classificationService) score(ctx context.Context, tenantID string, req *ScoreRequest) (*models.ClassificationResult, []scoring.DroppedContribution, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, nil, err
	}

	snapshot, err := s.source.Get(ctx, tenantID, req.FrameworkID)
	if err != nil {
		return nil, nil, err
	}
	if snapshot.Framework.TenantID != tenantID {
		return nil, nil, ErrTenantMismatch
	}
	if len(snapshot.Questions) == 0 {
		return nil, nil, ErrNoQuestions
	}

	questions := make([]models.Question, len(snapshot.Questions))
	for i, q := range snapshot.Questions {
		questions[i] = *q
	}

	report := scoring.Score(snapshot.Framework, questions, req.Answers)

	submissionRef := req.SubmissionRef
	if submissionRef == "" {
		submissionRef = uuid.NewString()
	}

	result := &models.ClassificationResult{
		TenantID:       tenantID,
		FrameworkID:    snapshot.Framework.ID,
		SubmissionRef:  submissionRef,
		RespondentRef:  req.RespondentRef,
		AnsweredCount:  report.AnsweredCount,
		ScoredCount:    report.ScoredCount,
		Classification: report.Classification,
		CreatedAt:      time.Now().UTC(),
	}
	return result, report.Dropped, nil
}

func (s *classificationService) publish(ctx context.Context, event *events.ClassificationEvent, resourceID uint) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.metrics.IncPublishFailure(string(event.Type))
		s.logger.LogPublishFailure(ctx, string(event.Type), event.TenantID, resourceID, err)
	}
}

// ===== RESULTS =====

func (s *classificationService) GetResult(ctx context.Context, tenantID string, id uint) (*models.ClassificationResult, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	result, err := s.repo.Result().GetByID(ctx, tenantID, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get classification result: %w", err)
	}
	if result.TenantID != tenantID {
		return nil, ErrTenantMismatch
	}
	return result, nil
}

func (s *classificationService) ListResults(ctx context.Context, tenantID string, filters repositories.ResultFilters) ([]*models.ClassificationResult, int64, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, 0, err
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateFrom.After(*filters.DateTo) {
		return nil, 0, NewValidationError("date_from", "must not be after date_to", filters.DateFrom)
	}

	results, total, err := s.repo.Result().List(ctx, tenantID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list classification results: %w", err)
	}
	return results, total, nil
}

func (s *classificationService) GetReport(ctx context.Context, tenantID string, resultID uint) (*ReportResponse, error) {
	result, err := s.GetResult(ctx, tenantID, resultID)
	if err != nil {
		return nil, err
	}

	key, ok := result.LookupKey()
	if !ok {
		return nil, ErrNoLookupKey
	}

	content, err := s.repo.ReportContent().GetByLookupKey(ctx, result.FrameworkID, key)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrReportContentNotFound, key)
		}
		return nil, fmt.Errorf("failed to get report content: %w", err)
	}

	return &ReportResponse{Result: result, LookupKey: key, Content: content}, nil
}

func (s *classificationService) GetDistribution(ctx context.Context, tenantID string, frameworkID uint) (*repositories.DistributionStats, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.source.Get(ctx, tenantID, frameworkID); err != nil {
		return nil, err
	}
	return s.repo.Result().GetDistribution(ctx, tenantID, frameworkID)
}

// ===== HELPERS =====

func requireTenant(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return ErrTenantRequired
	}
	return nil
}

func nonNilDrops(dropped []scoring.DroppedContribution) []scoring.DroppedContribution {
	if dropped == nil {
		return []scoring.DroppedContribution{}
	}
	return dropped
}
