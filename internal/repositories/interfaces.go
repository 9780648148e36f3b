package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type FrameworkFilters struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type ResultFilters struct {
	FrameworkID      *uint      `json:"framework_id"`
	RespondentRef    *string    `json:"respondent_ref"`
	PrimaryFrequency *string    `json:"primary_frequency"`
	PrimaryProfile   *string    `json:"primary_profile"`
	DateFrom         *time.Time `json:"date_from"`
	DateTo           *time.Time `json:"date_to"`
	Limit            int        `json:"limit"`
	Offset           int        `json:"offset"`
	SortBy           string     `json:"sort_by"`    // "created_at", "primary_frequency", "primary_profile"
	SortOrder        string     `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

// DistributionStats counts results per primary code for one framework.
type DistributionStats struct {
	TotalResults int            `json:"total_results"`
	ByFrequency  map[string]int `json:"by_frequency"`
	ByProfile    map[string]int `json:"by_profile"`
}

// ===== REPOSITORY INTERFACES =====

// FrameworkRepository stores tenant-owned category configurations.
type FrameworkRepository interface {
	Create(ctx context.Context, framework *models.Framework) error
	Update(ctx context.Context, framework *models.Framework) error
	GetByID(ctx context.Context, tenantID string, id uint) (*models.Framework, error)
	GetByName(ctx context.Context, tenantID, name string) (*models.Framework, error)
	List(ctx context.Context, tenantID string, filters FrameworkFilters) ([]*models.Framework, int64, error)
}

// QuestionRepository stores the question bank of a framework.
type QuestionRepository interface {
	GetByFramework(ctx context.Context, frameworkID uint) ([]*models.Question, error)
	CountByFramework(ctx context.Context, frameworkID uint) (int64, error)
	// ReplaceForFramework swaps the whole bank atomically.
	ReplaceForFramework(ctx context.Context, frameworkID uint, questions []*models.Question) error
}

// ResultRepository stores immutable classification results. There is no
// update or delete.
type ResultRepository interface {
	Create(ctx context.Context, result *models.ClassificationResult) error
	GetByID(ctx context.Context, tenantID string, id uint) (*models.ClassificationResult, error)
	List(ctx context.Context, tenantID string, filters ResultFilters) ([]*models.ClassificationResult, int64, error)
	GetDistribution(ctx context.Context, tenantID string, frameworkID uint) (*DistributionStats, error)
}

// ReportContentRepository stores narrative copy per lookup key.
type ReportContentRepository interface {
	Upsert(ctx context.Context, content *models.ReportContent) error
	GetByLookupKey(ctx context.Context, frameworkID uint, lookupKey string) (*models.ReportContent, error)
}

// Repository groups every store the services need.
type Repository interface {
	Framework() FrameworkRepository
	Question() QuestionRepository
	Result() ResultRepository
	ReportContent() ReportContentRepository
}

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
