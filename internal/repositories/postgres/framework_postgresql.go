package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"gorm.io/gorm"
)

type FrameworkPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewFrameworkPostgreSQL(db *gorm.DB) repositories.FrameworkRepository {
	return &FrameworkPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create stores a framework, rejecting duplicate names within a tenant
func (f *FrameworkPostgreSQL) Create(ctx context.Context, framework *models.Framework) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Framework{}).
			Where("tenant_id = ? AND name = ?", framework.TenantID, framework.Name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check framework name uniqueness: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("framework '%s' already exists for tenant '%s'", framework.Name, framework.TenantID)
		}

		if framework.Version == 0 {
			framework.Version = 1
		}
		if err := tx.Omit("Questions").Create(framework).Error; err != nil {
			return fmt.Errorf("failed to create framework: %w", err)
		}
		return nil
	})
}

// Update saves the configuration and bumps the version
func (f *FrameworkPostgreSQL) Update(ctx context.Context, framework *models.Framework) error {
	framework.Version++
	return f.db.WithContext(ctx).Omit("Questions").Save(framework).Error
}

func (f *FrameworkPostgreSQL) GetByID(ctx context.Context, tenantID string, id uint) (*models.Framework, error) {
	var framework models.Framework
	if err := f.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&framework, id).Error; err != nil {
		return nil, err
	}
	return &framework, nil
}

func (f *FrameworkPostgreSQL) GetByName(ctx context.Context, tenantID, name string) (*models.Framework, error) {
	var framework models.Framework
	if err := f.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&framework).Error; err != nil {
		return nil, err
	}
	return &framework, nil
}

func (f *FrameworkPostgreSQL) List(ctx context.Context, tenantID string, filters repositories.FrameworkFilters) ([]*models.Framework, int64, error) {
	var frameworks []*models.Framework
	var total int64

	query := f.db.WithContext(ctx).Model(&models.Framework{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = f.helpers.ApplyPaginationAndSort(query, "name", "asc", filters.Limit, filters.Offset, "name")
	if err := query.Find(&frameworks).Error; err != nil {
		return nil, 0, err
	}

	return frameworks, total, nil
}
