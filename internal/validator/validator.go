package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	businessValidator *BusinessValidator
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		businessValidator: NewBusinessValidator(),
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateBusiness validates business rules only
func (v *Validator) ValidateBusiness(s interface{}) ValidationErrors {
	return v.businessValidator.Validate(s)
}

// Validate performs complete validation (struct + business rules)
func (v *Validator) Validate(s interface{}) error {
	// First validate struct tags
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	// Then validate business rules
	if errors := v.ValidateBusiness(s); len(errors) > 0 {
		return errors
	}

	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// Business returns the business validator
func (v *Validator) Business() *BusinessValidator {
	return v.businessValidator
}

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("frequency_code", validateFrequencyCode)
	validate.RegisterValidation("question_category", validateQuestionCategory)
	validate.RegisterValidation("tenant_id", validateTenantID)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateFrequencyCode(fl validator.FieldLevel) bool {
	_, ok := models.ParseFrequency(fl.Field().String())
	return ok
}

func validateQuestionCategory(fl validator.FieldLevel) bool {
	validCategories := []models.QuestionCategory{
		models.QuestionScored,
		models.QuestionQualitative,
	}

	value := fl.Field().String()
	for _, validCategory := range validCategories {
		if string(validCategory) == value {
			return true
		}
	}
	return false
}

func validateTenantID(fl validator.FieldLevel) bool {
	return tenantIDPattern.MatchString(fl.Field().String())
}
