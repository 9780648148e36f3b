package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/classification-service/internal/events"
	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"github.com/SAP-F-2025/classification-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ImportExportService moves question banks and results in and out of
// spreadsheets.
type ImportExportService interface {
	// ImportQuestionsFromFile dispatches on the file extension.
	ImportQuestionsFromFile(ctx context.Context, tenantID string, frameworkID uint, file io.Reader, filename string) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, tenantID string, frameworkID uint, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, tenantID string, frameworkID uint, reader io.Reader) (*ImportResult, error)

	ExportResultsToExcel(ctx context.Context, tenantID string, frameworkID uint) ([]byte, error)
}

// Column headers of the question import sheet. One row per choice; rows that
// share an order belong to the same question.
const (
	ColumnOrder     = "order"
	ColumnCategory  = "category"
	ColumnLayer     = "layer"
	ColumnText      = "text"
	ColumnChoice    = "choice"
	ColumnPoints    = "points"
	ColumnProfile   = "profile"
	ColumnFrequency = "frequency"
)

const exportPageSize = 100

type ImportResult struct {
	FrameworkID   uint               `json:"framework_id"`
	TotalRows     int                `json:"total_rows"`
	QuestionCount int                `json:"question_count"`
	Questions     []*models.Question `json:"questions,omitempty"`
	Errors        []ImportRowError   `json:"errors,omitempty"`
}

type importExportService struct {
	repo      repositories.Repository
	source    FrameworkSource
	publisher events.EventPublisher
	validator *validator.Validator
	metrics   *Metrics
	logger    *ServiceLogger
}

func NewImportExportService(
	repo repositories.Repository,
	source FrameworkSource,
	publisher events.EventPublisher,
	validator *validator.Validator,
	metrics *Metrics,
	logger *slog.Logger,
) ImportExportService {
	return &importExportService{
		repo:      repo,
		source:    source,
		publisher: publisher,
		validator: validator,
		metrics:   metrics,
		logger:    NewServiceLogger(logger, LogConfig{Service: "classification-service", Component: "import_export"}),
	}
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, tenantID string, frameworkID uint, file io.Reader, filename string) (*ImportResult, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return s.ImportQuestionsFromExcel(ctx, tenantID, frameworkID, file)
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, tenantID, frameworkID, file)
	default:
		return nil, fmt.Errorf("%w: unsupported file format %q", ErrImportFileInvalid, ext)
	}
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, tenantID string, frameworkID uint, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrImportFileInvalid)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}

	return s.importRows(ctx, tenantID, frameworkID, sheets[0], rows)
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, tenantID string, frameworkID uint, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFileInvalid, err)
	}

	return s.importRows(ctx, tenantID, frameworkID, "csv", rows)
}

// importRows parses, validates and stores a question bank. The bank is
// replaced only when every row is valid.
func (s *importExportService) importRows(ctx context.Context, tenantID string, frameworkID uint, sheet string, rows [][]string) (*ImportResult, error) {
	op := s.logger.WithOperation(ctx, "import_questions", tenantID)

	result, err := s.doImport(ctx, tenantID, frameworkID, sheet, rows)
	op.LogResult(frameworkID, "framework", err)
	return result, err
}

func (s *importExportService) doImport(ctx context.Context, tenantID string, frameworkID uint, sheet string, rows [][]string) (*ImportResult, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	snapshot, err := s.source.Get(ctx, tenantID, frameworkID)
	if err != nil {
		return nil, err
	}
	framework := snapshot.Framework

	questions, rowErrs, err := ParseQuestionRows(sheet, rows)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		FrameworkID: frameworkID,
		TotalRows:   len(rows) - 1,
		Errors:      rowErrs,
	}
	if len(rowErrs) > 0 {
		return result, rowErrorsToValidation(rowErrs)
	}
	if len(questions) == 0 {
		return result, ErrImportEmpty
	}

	for _, q := range questions {
		q.FrameworkID = frameworkID
		if err := s.validator.ValidateStruct(q); err != nil {
			if verrs := ToValidationErrors(err); len(verrs) > 0 {
				return result, verrs
			}
			return result, err
		}
	}
	if err := s.validator.Question().ValidateBatch(questions, framework); err != nil {
		return result, NewBusinessRuleError("question_bank", err.Error(), map[string]interface{}{"framework_id": frameworkID})
	}

	if err := s.repo.Question().ReplaceForFramework(ctx, frameworkID, questions); err != nil {
		return nil, fmt.Errorf("failed to save questions: %w", err)
	}
	s.source.Invalidate(ctx, tenantID, frameworkID)
	s.metrics.AddImported(len(questions))

	if s.publisher != nil {
		event := events.NewQuestionBankImportedEvent(tenantID, frameworkID, len(questions))
		if err := s.publisher.PublishEvent(ctx, event); err != nil {
			s.metrics.IncPublishFailure(string(event.Type))
			s.logger.LogPublishFailure(ctx, string(event.Type), tenantID, frameworkID, err)
		}
	}

	result.QuestionCount = len(questions)
	result.Questions = questions
	return result, nil
}

// ParseQuestionRows turns sheet rows into questions. The first row is the
// header; column names are case-insensitive.
func ParseQuestionRows(sheet string, rows [][]string) ([]*models.Question, []ImportRowError, error) {
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%w: header row and at least one data row required", ErrImportFileInvalid)
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := headerMap[ColumnOrder]; !ok {
		return nil, nil, fmt.Errorf("%w: missing required column %q", ErrImportFileInvalid, ColumnOrder)
	}

	cell := func(row []string, column string) string {
		i, ok := headerMap[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	byOrder := make(map[int]*models.Question)
	var orders []int
	var rowErrs []ImportRowError

	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		order, err := strconv.Atoi(cell(row, ColumnOrder))
		if err != nil || order < 1 {
			rowErrs = append(rowErrs, ImportRowError{Sheet: sheet, Row: rowNum, Err: fmt.Errorf("order must be a positive integer")})
			continue
		}

		q, exists := byOrder[order]
		if !exists {
			category := models.QuestionCategory(strings.ToLower(cell(row, ColumnCategory)))
			if category == "" {
				category = models.QuestionScored
			}
			q = &models.Question{
				Order:    order,
				Category: category,
				Layer:    cell(row, ColumnLayer),
				Text:     cell(row, ColumnText),
			}
			byOrder[order] = q
			orders = append(orders, order)
		}

		if q.Category == models.QuestionQualitative {
			continue
		}

		entry, err := parseWeightCells(cell(row, ColumnPoints), cell(row, ColumnProfile), cell(row, ColumnFrequency))
		if err != nil {
			rowErrs = append(rowErrs, ImportRowError{Sheet: sheet, Row: rowNum, Err: err})
			continue
		}
		q.Choices = append(q.Choices, cell(row, ColumnChoice))
		q.Weights = append(q.Weights, entry)
	}

	slices.Sort(orders)
	questions := make([]*models.Question, 0, len(orders))
	for _, order := range orders {
		questions = append(questions, byOrder[order])
	}
	return questions, rowErrs, nil
}

func parseWeightCells(points, profile, frequency string) (models.WeightEntry, error) {
	if profile == "" && frequency == "" {
		return models.WeightEntry{}, fmt.Errorf("profile or frequency is required")
	}
	value, err := strconv.ParseFloat(points, 64)
	if err != nil {
		return models.WeightEntry{}, fmt.Errorf("points %q is not a number", points)
	}
	if value < 0 {
		return models.WeightEntry{}, fmt.Errorf("points cannot be negative")
	}
	return models.WeightEntry{
		Points:        &value,
		ProfileCode:   models.CodeRef(profile),
		FrequencyCode: models.CodeRef(frequency),
	}, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func rowErrorsToValidation(rowErrs []ImportRowError) ValidationErrors {
	errs := make(ValidationErrors, 0, len(rowErrs))
	for _, re := range rowErrs {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("%s!%d", re.Sheet, re.Row),
			Message: re.Err.Error(),
			Rule:    "import_row",
		})
	}
	return errs
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportResultsToExcel(ctx context.Context, tenantID string, frameworkID uint) ([]byte, error) {
	op := s.logger.WithOperation(ctx, "export_results", tenantID)

	data, err := s.exportResults(ctx, tenantID, frameworkID)
	op.LogResult(frameworkID, "framework", err)
	return data, err
}

func (s *importExportService) exportResults(ctx context.Context, tenantID string, frameworkID uint) ([]byte, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}

	snapshot, err := s.source.Get(ctx, tenantID, frameworkID)
	if err != nil {
		return nil, err
	}
	cfg := snapshot.Framework.Config

	headers := []string{
		"Result ID", "Submission Ref", "Respondent Ref", "Created At", "Answered", "Scored",
		"Primary Frequency", "Secondary Frequency", "Primary Profile", "Secondary Profile", "Combined Code",
	}
	for _, f := range cfg.Frequencies {
		headers = append(headers, fmt.Sprintf("%s %%", f.Code))
	}
	for _, p := range cfg.Profiles {
		headers = append(headers, fmt.Sprintf("%s %%", p.Code))
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Results"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := writeRow(f, sheetName, 1, stringsToCells(headers)); err != nil {
		return nil, err
	}

	rowNum := 2
	filters := repositories.ResultFilters{
		FrameworkID: &frameworkID,
		SortBy:      "created_at",
		SortOrder:   "asc",
		Limit:       exportPageSize,
	}
	for {
		results, total, err := s.repo.Result().List(ctx, tenantID, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list results for export: %w", err)
		}

		for _, r := range results {
			row := []interface{}{
				r.ID, r.SubmissionRef, deref(r.RespondentRef), r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.AnsweredCount, r.ScoredCount,
				deref(r.PrimaryFrequency), deref(r.SecondaryFrequency),
				deref(r.PrimaryProfile), deref(r.SecondaryProfile), deref(r.CombinedCode),
			}
			for _, fd := range cfg.Frequencies {
				row = append(row, r.FrequencyPercentages[string(fd.Code)])
			}
			for _, pd := range cfg.Profiles {
				row = append(row, r.ProfilePercentages[string(pd.Code)])
			}
			if err := writeRow(f, sheetName, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
		}

		filters.Offset += len(results)
		if len(results) == 0 || int64(filters.Offset) >= total {
			break
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func stringsToCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToValidationErrors converts validator errors to the shared type
func ToValidationErrors(err error) ValidationErrors {
	return validator.ToValidationErrors(err)
}
