package validator

import (
	"fmt"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

// QuestionValidator handles question-bank validation before import
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks that a scored question carries a weight table and
// that its layer, when set, exists in the framework.
func (v *QuestionValidator) ValidateQuestion(question *models.Question, framework *models.Framework) error {
	if question.Order < 1 {
		return fmt.Errorf("question order must be at least 1")
	}

	if question.Category == models.QuestionQualitative {
		return nil
	}

	table := question.Table()
	if len(table) == 0 {
		return fmt.Errorf("scored question %d must provide a profile_map or weights table", question.Order)
	}

	if len(question.Choices) > 0 && len(table) < len(question.Choices) {
		return fmt.Errorf("question %d weight table has %d entries for %d choices", question.Order, len(table), len(question.Choices))
	}

	if question.Layer != "" && framework != nil {
		if _, ok := framework.Layer(question.Layer); !ok {
			return fmt.Errorf("question %d references unknown layer '%s'", question.Order, question.Layer)
		}
	}

	for i, entry := range table {
		if entry.Points != nil && *entry.Points < 0 {
			return fmt.Errorf("question %d choice %d points cannot be negative", question.Order, i+1)
		}
	}

	return nil
}

// ValidateBatch validates multiple questions and rejects duplicate orders
func (v *QuestionValidator) ValidateBatch(questions []*models.Question, framework *models.Framework) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	orders := make(map[int]bool, len(questions))
	for i, question := range questions {
		if err := v.ValidateQuestion(question, framework); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
		if orders[question.Order] {
			return fmt.Errorf("validation failed for question %d: order %d is used more than once", i+1, question.Order)
		}
		orders[question.Order] = true
	}

	return nil
}
