package postgres

import (
	"context"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportContentPostgreSQL struct {
	db *gorm.DB
}

func NewReportContentPostgreSQL(db *gorm.DB) repositories.ReportContentRepository {
	return &ReportContentPostgreSQL{db: db}
}

func (r *ReportContentPostgreSQL) Upsert(ctx context.Context, content *models.ReportContent) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "framework_id"}, {Name: "lookup_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "summary", "sections", "updated_at"}),
	}).Create(content).Error
}

func (r *ReportContentPostgreSQL) GetByLookupKey(ctx context.Context, frameworkID uint, lookupKey string) (*models.ReportContent, error) {
	var content models.ReportContent
	if err := r.db.WithContext(ctx).
		Where("framework_id = ? AND lookup_key = ?", frameworkID, lookupKey).
		First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}
