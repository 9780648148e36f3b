package services

import (
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/classification-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Tenant errors
	ErrTenantRequired = errors.New("tenant id is required")
	ErrTenantMismatch = errors.New("resource belongs to another tenant")

	// Framework specific errors
	ErrFrameworkNotFound = errors.New("framework not found")
	ErrNoQuestions       = errors.New("framework has no questions")

	// Result specific errors
	ErrResultNotFound        = errors.New("classification result not found")
	ErrReportContentNotFound = errors.New("report content not found")
	ErrNoLookupKey           = errors.New("result has no primary profile or combined code")

	// Import errors
	ErrImportFileInvalid = errors.New("import file is invalid")
	ErrImportEmpty       = errors.New("import file contains no questions")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ImportRowError locates a failure inside an uploaded workbook.
type ImportRowError struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
	Err   error  `json:"-"`
}

func (e *ImportRowError) Error() string {
	return fmt.Sprintf("sheet %s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *ImportRowError) Unwrap() error {
	return e.Err
}

func (e ImportRowError) MarshalJSON() ([]byte, error) {
	message := ""
	if e.Err != nil {
		message = e.Err.Error()
	}
	return json.Marshal(struct {
		Sheet   string `json:"sheet"`
		Row     int    `json:"row"`
		Message string `json:"message"`
	}{e.Sheet, e.Row, message})
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrFrameworkNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, ErrReportContentNotFound)
}

// IsForbidden checks if error represents a cross-tenant access
func IsForbidden(err error) bool {
	return errors.Is(err, ErrTenantMismatch)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrTenantRequired) ||
		errors.Is(err, ErrImportFileInvalid) ||
		errors.Is(err, ErrImportEmpty) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var rowErr *ImportRowError
	return errors.As(err, &rowErr)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre) ||
		errors.Is(err, ErrNoQuestions) ||
		errors.Is(err, ErrNoLookupKey)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
