package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"github.com/SAP-F-2025/classification-service/internal/services"
	"github.com/SAP-F-2025/classification-service/internal/utils"
	"github.com/SAP-F-2025/classification-service/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTenant = "tenant-a"

// ===== SERVICE MOCKS =====

type mockClassificationService struct {
	mock.Mock
}

func (m *mockClassificationService) Score(ctx context.Context, tenantID string, req *services.ScoreRequest) (*services.ScoreResponse, error) {
	args := m.Called(ctx, tenantID, req)
	resp, _ := args.Get(0).(*services.ScoreResponse)
	return resp, args.Error(1)
}

func (m *mockClassificationService) Preview(ctx context.Context, tenantID string, req *services.ScoreRequest) (*services.PreviewResponse, error) {
	args := m.Called(ctx, tenantID, req)
	resp, _ := args.Get(0).(*services.PreviewResponse)
	return resp, args.Error(1)
}

func (m *mockClassificationService) GetResult(ctx context.Context, tenantID string, id uint) (*models.ClassificationResult, error) {
	args := m.Called(ctx, tenantID, id)
	result, _ := args.Get(0).(*models.ClassificationResult)
	return result, args.Error(1)
}

func (m *mockClassificationService) ListResults(ctx context.Context, tenantID string, filters repositories.ResultFilters) ([]*models.ClassificationResult, int64, error) {
	args := m.Called(ctx, tenantID, filters)
	results, _ := args.Get(0).([]*models.ClassificationResult)
	return results, args.Get(1).(int64), args.Error(2)
}

func (m *mockClassificationService) GetReport(ctx context.Context, tenantID string, resultID uint) (*services.ReportResponse, error) {
	args := m.Called(ctx, tenantID, resultID)
	resp, _ := args.Get(0).(*services.ReportResponse)
	return resp, args.Error(1)
}

func (m *mockClassificationService) GetDistribution(ctx context.Context, tenantID string, frameworkID uint) (*repositories.DistributionStats, error) {
	args := m.Called(ctx, tenantID, frameworkID)
	stats, _ := args.Get(0).(*repositories.DistributionStats)
	return stats, args.Error(1)
}

type mockImportExportService struct {
	mock.Mock
}

func (m *mockImportExportService) ImportQuestionsFromFile(ctx context.Context, tenantID string, frameworkID uint, file io.Reader, filename string) (*services.ImportResult, error) {
	args := m.Called(ctx, tenantID, frameworkID, file, filename)
	result, _ := args.Get(0).(*services.ImportResult)
	return result, args.Error(1)
}

func (m *mockImportExportService) ImportQuestionsFromExcel(ctx context.Context, tenantID string, frameworkID uint, reader io.Reader) (*services.ImportResult, error) {
	args := m.Called(ctx, tenantID, frameworkID, reader)
	result, _ := args.Get(0).(*services.ImportResult)
	return result, args.Error(1)
}

func (m *mockImportExportService) ImportQuestionsFromCSV(ctx context.Context, tenantID string, frameworkID uint, reader io.Reader) (*services.ImportResult, error) {
	args := m.Called(ctx, tenantID, frameworkID, reader)
	result, _ := args.Get(0).(*services.ImportResult)
	return result, args.Error(1)
}

func (m *mockImportExportService) ExportResultsToExcel(ctx context.Context, tenantID string, frameworkID uint) ([]byte, error) {
	args := m.Called(ctx, tenantID, frameworkID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockServiceManager struct {
	classification *mockClassificationService
	importExport   *mockImportExportService
}

func (m *mockServiceManager) Classification() services.ClassificationService { return m.classification }
func (m *mockServiceManager) ImportExport() services.ImportExportService     { return m.importExport }

// ===== HELPERS =====

var anyCtx = mock.Anything

func setupRouter(t *testing.T) (*gin.Engine, *mockServiceManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := &mockServiceManager{
		classification: &mockClassificationService{},
		importExport:   &mockImportExportService{},
	}
	t.Cleanup(func() {
		manager.classification.AssertExpectations(t)
		manager.importExport.AssertExpectations(t)
	})

	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := gin.New()
	NewHandlerManager(manager, validator.New(), logger).SetupRoutes(router)
	return router, manager
}

func doRequest(router http.Handler, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":     "application/json",
		utils.TenantHeader: testTenant,
	}
}

func strPtr(s string) *string { return &s }

// ===== CLASSIFICATION =====

func TestScoreSubmission(t *testing.T) {
	router, manager := setupRouter(t)

	result := &models.ClassificationResult{ID: 42, TenantID: testTenant, FrameworkID: 7}
	result.PrimaryFrequency = strPtr("A")

	manager.classification.On("Score", anyCtx, testTenant, mock.MatchedBy(func(req *services.ScoreRequest) bool {
		return req.FrameworkID == 7 && len(req.Answers) == 2
	})).Return(&services.ScoreResponse{Result: result}, nil).Once()

	body := `{"framework_id": 7, "answers": [{"question_id": 1, "answer": 1}, {"question_id": 2, "answer": 2}]}`
	w := doRequest(router, http.MethodPost, "/api/v1/submissions/score", bytes.NewBufferString(body), jsonHeaders())

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Result struct {
			ID               uint    `json:"id"`
			PrimaryFrequency *string `json:"primary_frequency"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(42), resp.Result.ID)
	require.NotNil(t, resp.Result.PrimaryFrequency)
	assert.Equal(t, "A", *resp.Result.PrimaryFrequency)
}

func TestScoreSubmission_RequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		body    string
	}{
		{
			name:    "missing tenant header",
			headers: map[string]string{"Content-Type": "application/json"},
			body:    `{"framework_id": 7, "answers": []}`,
		},
		{
			name:    "malformed json",
			headers: jsonHeaders(),
			body:    `{"framework_id": `,
		},
		{
			name:    "missing framework id",
			headers: jsonHeaders(),
			body:    `{"answers": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t)
			w := doRequest(router, http.MethodPost, "/api/v1/submissions/score", bytes.NewBufferString(tt.body), tt.headers)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestScoreSubmission_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"framework missing", services.ErrFrameworkNotFound, http.StatusNotFound},
		{"other tenant", services.ErrTenantMismatch, http.StatusForbidden},
		{"empty bank", services.ErrNoQuestions, http.StatusUnprocessableEntity},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, manager := setupRouter(t)
			manager.classification.On("Score", anyCtx, testTenant, mock.Anything).Return(nil, tt.err).Once()

			w := doRequest(router, http.MethodPost, "/api/v1/submissions/score",
				bytes.NewBufferString(`{"framework_id": 7, "answers": []}`), jsonHeaders())
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestPreviewSubmission(t *testing.T) {
	router, manager := setupRouter(t)

	preview := &services.PreviewResponse{FrameworkID: 7, AnsweredCount: 1, ScoredCount: 1}
	manager.classification.On("Preview", anyCtx, testTenant, mock.Anything).Return(preview, nil).Once()

	w := doRequest(router, http.MethodPost, "/api/v1/submissions/preview",
		bytes.NewBufferString(`{"framework_id": 7, "answers": [{"question_id": 1, "answer": 1}]}`), jsonHeaders())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"scored_count":1`)
}

func TestGetResult(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, manager := setupRouter(t)
		manager.classification.On("GetResult", anyCtx, testTenant, uint(5)).
			Return(&models.ClassificationResult{ID: 5, TenantID: testTenant}, nil).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/results/5", nil, jsonHeaders())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":5`)
	})

	t.Run("not found", func(t *testing.T) {
		router, manager := setupRouter(t)
		manager.classification.On("GetResult", anyCtx, testTenant, uint(5)).
			Return(nil, services.ErrResultNotFound).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/results/5", nil, jsonHeaders())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		router, _ := setupRouter(t)
		w := doRequest(router, http.MethodGet, "/api/v1/results/abc", nil, jsonHeaders())
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doRequest(router, http.MethodGet, "/api/v1/results/0", nil, jsonHeaders())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListResults_ParsesFilters(t *testing.T) {
	router, manager := setupRouter(t)

	manager.classification.On("ListResults", anyCtx, testTenant, mock.MatchedBy(func(f repositories.ResultFilters) bool {
		return f.FrameworkID != nil && *f.FrameworkID == 7 &&
			f.PrimaryFrequency != nil && *f.PrimaryFrequency == "A" &&
			f.DateFrom != nil && f.DateFrom.Year() == 2025 &&
			f.Limit == 10 && f.Offset == 20 &&
			f.SortOrder == "asc"
	})).Return([]*models.ClassificationResult{{ID: 1}}, int64(21), nil).Once()

	path := "/api/v1/results?framework_id=7&primary_frequency=A&date_from=2025-01-01T00:00:00Z&page=3&size=10&sort_order=ASC"
	w := doRequest(router, http.MethodGet, path, nil, jsonHeaders())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(21), resp.Total)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 20, resp.Offset)
}

func TestListResults_ClampsPageSize(t *testing.T) {
	router, manager := setupRouter(t)

	manager.classification.On("ListResults", anyCtx, testTenant, mock.MatchedBy(func(f repositories.ResultFilters) bool {
		return f.Limit == maxPageSize && f.Offset == 0
	})).Return([]*models.ClassificationResult{}, int64(0), nil).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/results?size=5000", nil, jsonHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListResults_InvalidDate(t *testing.T) {
	router, _ := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/api/v1/results?date_to=yesterday", nil, jsonHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReport(t *testing.T) {
	t.Run("content", func(t *testing.T) {
		router, manager := setupRouter(t)
		manager.classification.On("GetReport", anyCtx, testTenant, uint(3)).Return(&services.ReportResponse{
			LookupKey: "AB",
			Content:   &models.ReportContent{LookupKey: "AB", Title: "Builder"},
		}, nil).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/results/3/report", nil, jsonHeaders())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Builder")
	})

	t.Run("no lookup key", func(t *testing.T) {
		router, manager := setupRouter(t)
		manager.classification.On("GetReport", anyCtx, testTenant, uint(3)).Return(nil, services.ErrNoLookupKey).Once()

		w := doRequest(router, http.MethodGet, "/api/v1/results/3/report", nil, jsonHeaders())
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGetDistribution(t *testing.T) {
	router, manager := setupRouter(t)
	manager.classification.On("GetDistribution", anyCtx, testTenant, uint(7)).Return(&repositories.DistributionStats{
		TotalResults: 3,
		ByFrequency:  map[string]int{"A": 2, "B": 1},
	}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/frameworks/7/distribution", nil, jsonHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"A":2`)
}

// ===== IMPORT / EXPORT =====

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestImportQuestions(t *testing.T) {
	router, manager := setupRouter(t)

	manager.importExport.On("ImportQuestionsFromFile", anyCtx, testTenant, uint(7), mock.Anything, "bank.csv").
		Return(&services.ImportResult{FrameworkID: 7, TotalRows: 2, QuestionCount: 1}, nil).Once()

	body, contentType := multipartBody(t, "bank.csv", "order,text,choice,points,frequency\n1,Q,yes,5,A\n1,Q,no,5,B\n")
	w := doRequest(router, http.MethodPost, "/api/v1/frameworks/7/questions/import", body, map[string]string{
		"Content-Type":     contentType,
		utils.TenantHeader: testTenant,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"question_count":1`)
}

func TestImportQuestions_Rejected(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		router, _ := setupRouter(t)
		body, contentType := multipartBody(t, "bank.txt", "hello")
		w := doRequest(router, http.MethodPost, "/api/v1/frameworks/7/questions/import", body, map[string]string{
			"Content-Type":     contentType,
			utils.TenantHeader: testTenant,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		router, _ := setupRouter(t)
		w := doRequest(router, http.MethodPost, "/api/v1/frameworks/7/questions/import", nil, map[string]string{
			utils.TenantHeader: testTenant,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid rows", func(t *testing.T) {
		router, manager := setupRouter(t)
		rowErrs := services.ValidationErrors{
			{Field: "Questions!3", Message: "points must be a number", Rule: "import_row"},
		}
		manager.importExport.On("ImportQuestionsFromFile", anyCtx, testTenant, uint(7), mock.Anything, "bank.csv").
			Return(nil, rowErrs).Once()

		body, contentType := multipartBody(t, "bank.csv", "order,text\n1,Q\n")
		w := doRequest(router, http.MethodPost, "/api/v1/frameworks/7/questions/import", body, map[string]string{
			"Content-Type":     contentType,
			utils.TenantHeader: testTenant,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Questions!3")
	})
}

func TestExportResults(t *testing.T) {
	router, manager := setupRouter(t)
	manager.importExport.On("ExportResultsToExcel", anyCtx, testTenant, uint(7)).Return([]byte("xlsx-bytes"), nil).Once()

	w := doRequest(router, http.MethodGet, "/api/v1/frameworks/7/results/export", nil, jsonHeaders())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "framework-7-results-")
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t)
	w := doRequest(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classification-service")
}
