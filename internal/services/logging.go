package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/scoring"
)

// maxLoggedDrops bounds how many dropped contributions a single scoring
// operation writes individually.
const maxLoggedDrops = 20

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, tenantID string, resourceID uint, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		// Adjust log level based on error type
		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsForbidden(err):
			level = slog.LevelWarn
			status = "forbidden"
		case IsNotFound(err):
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("tenant_id", tenantID),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr ValidationErrors
		var businessErr *BusinessRuleError
		var rowErr *ImportRowError
		switch {
		case errors.As(err, &validationErr):
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		case errors.As(err, &businessErr):
			attrs = append(attrs, slog.String("business_rule", businessErr.Rule))
		case errors.As(err, &rowErr):
			attrs = append(attrs, slog.String("sheet", rowErr.Sheet), slog.Int("row", rowErr.Row))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation, tenantID string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("tenant_id", tenantID),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
			slog.String("field", err.Field),
			slog.String("message", err.Message),
			slog.Any("value", err.Value),
		))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

// ===== DATA QUALITY LOGGING =====

// LogDroppedContributions reports answers the engine could not credit. These
// are authoring or client problems, so they go out at Warn.
func (l *ServiceLogger) LogDroppedContributions(ctx context.Context, tenantID string, frameworkID uint, dropped []scoring.DroppedContribution) {
	if len(dropped) == 0 {
		return
	}

	byReason := make(map[string]int)
	for _, d := range dropped {
		byReason[string(d.Reason)]++
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Contributions dropped during scoring",
		slog.String("tenant_id", tenantID),
		slog.Uint64("framework_id", uint64(frameworkID)),
		slog.Int("dropped_count", len(dropped)),
		slog.Any("by_reason", byReason),
	)

	for i, d := range dropped {
		if i >= maxLoggedDrops {
			break
		}
		l.logger.LogAttrs(ctx, slog.LevelWarn, "Dropped contribution",
			slog.String("tenant_id", tenantID),
			slog.Uint64("framework_id", uint64(frameworkID)),
			slog.Uint64("question_id", uint64(d.QuestionID)),
			slog.String("reason", string(d.Reason)),
			slog.String("ref", d.Ref),
		)
	}
}

// LogPublishFailure records an event that could not be delivered. The
// operation that produced it has already succeeded.
func (l *ServiceLogger) LogPublishFailure(ctx context.Context, eventType, tenantID string, resourceID uint, err error) {
	l.logger.LogAttrs(ctx, slog.LevelError, "Event publish failed",
		slog.String("event_type", eventType),
		slog.String("tenant_id", tenantID),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("error", err.Error()),
	)
}

func (l *ServiceLogger) Debug(ctx context.Context, msg string, args ...any) {
	if l.config.EnableDebug {
		l.logger.DebugContext(ctx, msg, args...)
	}
}

// ===== MIDDLEWARE AND HELPERS =====

// ContextualLogger wraps operations with automatic logging
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	tenantID  string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, tenantID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		tenantID:  tenantID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) Elapsed() time.Duration {
	return time.Since(cl.startTime)
}

func (cl *ContextualLogger) LogResult(resourceID uint, resourceType string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.tenantID, resourceID, resourceType, cl.Elapsed(), err)

	var validationErrors ValidationErrors
	if err != nil && errors.As(err, &validationErrors) {
		cl.logger.LogValidationError(cl.ctx, cl.operation, cl.tenantID, validationErrors)
	}
}

// ===== ERROR FORMATTING HELPERS =====

func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var validationErrs ValidationErrors
	var businessErr *BusinessRuleError
	var rowErr *ImportRowError

	switch {
	case errors.As(err, &validationErrs):
		result["type"] = "validation"
		result["count"] = len(validationErrs)

		fields := make([]map[string]interface{}, len(validationErrs))
		for i, validationErr := range validationErrs {
			fields[i] = map[string]interface{}{
				"field":   validationErr.Field,
				"message": validationErr.Message,
				"value":   validationErr.Value,
			}
		}
		result["errors"] = fields

	case errors.As(err, &businessErr):
		result["type"] = "business_rule"
		result["rule"] = businessErr.Rule
		result["context"] = businessErr.Context

	case errors.As(err, &rowErr):
		result["type"] = "import"
		result["sheet"] = rowErr.Sheet
		result["row"] = rowErr.Row

	case IsNotFound(err):
		result["type"] = "not_found"
	case IsForbidden(err):
		result["type"] = "forbidden"
	case IsConflict(err):
		result["type"] = "conflict"
	}

	return result
}
