package postgres

import (
	"context"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *ResultPostgreSQL) Create(ctx context.Context, result *models.ClassificationResult) error {
	return r.db.WithContext(ctx).Omit("Framework").Create(result).Error
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, tenantID string, id uint) (*models.ClassificationResult, error) {
	var result models.ClassificationResult
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) List(ctx context.Context, tenantID string, filters repositories.ResultFilters) ([]*models.ClassificationResult, int64, error) {
	var results []*models.ClassificationResult
	var total int64

	// apply filter first
	query := r.db.WithContext(ctx).Model(&models.ClassificationResult{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset,
		"created_at", "primary_frequency", "primary_profile")

	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (r *ResultPostgreSQL) GetDistribution(ctx context.Context, tenantID string, frameworkID uint) (*repositories.DistributionStats, error) {
	stats := &repositories.DistributionStats{
		ByFrequency: make(map[string]int),
		ByProfile:   make(map[string]int),
	}

	type row struct {
		Code  *string
		Count int
	}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.ClassificationResult{}).
			Where("tenant_id = ? AND framework_id = ?", tenantID, frameworkID)
	}

	var frequencyRows []row
	if err := base().Select("primary_frequency AS code, COUNT(*) AS count").
		Group("primary_frequency").Scan(&frequencyRows).Error; err != nil {
		return nil, err
	}
	for _, fr := range frequencyRows {
		stats.TotalResults += fr.Count
		if fr.Code != nil {
			stats.ByFrequency[*fr.Code] = fr.Count
		}
	}

	var profileRows []row
	if err := base().Select("primary_profile AS code, COUNT(*) AS count").
		Group("primary_profile").Scan(&profileRows).Error; err != nil {
		return nil, err
	}
	for _, pr := range profileRows {
		if pr.Code != nil {
			stats.ByProfile[*pr.Code] = pr.Count
		}
	}

	return stats, nil
}

func (r *ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.FrameworkID != nil {
		query = query.Where("framework_id = ?", *filters.FrameworkID)
	}
	if filters.RespondentRef != nil {
		query = query.Where("respondent_ref = ?", *filters.RespondentRef)
	}
	if filters.PrimaryFrequency != nil {
		query = query.Where("primary_frequency = ?", *filters.PrimaryFrequency)
	}
	if filters.PrimaryProfile != nil {
		query = query.Where("primary_profile = ?", *filters.PrimaryProfile)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
