package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// GetByFramework returns the bank in presentation order
func (q *QuestionPostgreSQL) GetByFramework(ctx context.Context, frameworkID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("framework_id = ?", frameworkID).
		Order(`"order" ASC, id ASC`).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) CountByFramework(ctx context.Context, frameworkID uint) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&models.Question{}).
		Where("framework_id = ?", frameworkID).
		Count(&count).Error
	return count, err
}

func (q *QuestionPostgreSQL) ReplaceForFramework(ctx context.Context, frameworkID uint, questions []*models.Question) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("framework_id = ?", frameworkID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to clear question bank: %w", err)
		}

		if len(questions) == 0 {
			return nil
		}

		for _, question := range questions {
			question.ID = 0
			question.FrameworkID = frameworkID
		}
		if err := tx.CreateInBatches(questions, 100).Error; err != nil {
			return fmt.Errorf("failed to create questions: %w", err)
		}
		return nil
	})
}
