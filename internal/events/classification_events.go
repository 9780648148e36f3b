package events

import (
	"time"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/ThreeDotsLabs/watermill"
)

const (
	eventSource  = "classification-service"
	eventVersion = "1.0"
)

// EventType represents the kinds of events this service emits
type EventType string

const (
	EventClassificationCompleted EventType = "classification.completed"
	EventQuestionBankImported    EventType = "question_bank.imported"
)

// ClassificationEvent is the envelope for every published event
type ClassificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	TenantID  string                 `json:"tenant_id"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type ClassificationCompletedEvent struct {
	ResultID           uint                       `json:"result_id"`
	FrameworkID        uint                       `json:"framework_id"`
	SubmissionRef      string                     `json:"submission_ref"`
	RespondentRef      *string                    `json:"respondent_ref,omitempty"`
	PrimaryFrequency   *string                    `json:"primary_frequency"`
	SecondaryFrequency *string                    `json:"secondary_frequency"`
	PrimaryProfile     *string                    `json:"primary_profile"`
	SecondaryProfile   *string                    `json:"secondary_profile"`
	CombinedCode       *string                    `json:"combined_code"`
	FrequencyPercent   models.CategoryPercentages `json:"frequency_percentages"`
	ProfilePercent     models.CategoryPercentages `json:"profile_percentages"`
	DroppedCount       int                        `json:"dropped_count"`
}

type QuestionBankImportedEvent struct {
	FrameworkID   uint `json:"framework_id"`
	QuestionCount int  `json:"question_count"`
}

func NewClassificationCompletedEvent(result *models.ClassificationResult, droppedCount int) *ClassificationEvent {
	c := result.Classification
	return &ClassificationEvent{
		ID:        watermill.NewUUID(),
		Type:      EventClassificationCompleted,
		TenantID:  result.TenantID,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data: ClassificationCompletedEvent{
			ResultID:           result.ID,
			FrameworkID:        result.FrameworkID,
			SubmissionRef:      result.SubmissionRef,
			RespondentRef:      result.RespondentRef,
			PrimaryFrequency:   c.PrimaryFrequency,
			SecondaryFrequency: c.SecondaryFrequency,
			PrimaryProfile:     c.PrimaryProfile,
			SecondaryProfile:   c.SecondaryProfile,
			CombinedCode:       c.CombinedCode,
			FrequencyPercent:   c.FrequencyPercentages,
			ProfilePercent:     c.ProfilePercentages,
			DroppedCount:       droppedCount,
		},
	}
}

func NewQuestionBankImportedEvent(tenantID string, frameworkID uint, questionCount int) *ClassificationEvent {
	return &ClassificationEvent{
		ID:        watermill.NewUUID(),
		Type:      EventQuestionBankImported,
		TenantID:  tenantID,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data: QuestionBankImportedEvent{
			FrameworkID:   frameworkID,
			QuestionCount: questionCount,
		},
	}
}
