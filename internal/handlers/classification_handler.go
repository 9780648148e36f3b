package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"github.com/SAP-F-2025/classification-service/internal/services"
	"github.com/SAP-F-2025/classification-service/internal/utils"
	"github.com/SAP-F-2025/classification-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type ClassificationHandler struct {
	BaseHandler
	classificationService services.ClassificationService
	validator             *validator.Validator
}

func NewClassificationHandler(
	classificationService services.ClassificationService,
	validator *validator.Validator,
	logger utils.Logger,
) *ClassificationHandler {
	return &ClassificationHandler{
		BaseHandler:           NewBaseHandler(logger),
		classificationService: classificationService,
		validator:             validator,
	}
}

// ScoreSubmission classifies a submission and stores the result
// @Summary Score submission
// @Description Scores the answers against the framework's question bank and persists the classification
// @Tags submissions
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param request body services.ScoreRequest true "Submission"
// @Success 201 {object} services.ScoreResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /submissions/score [post]
func (h *ClassificationHandler) ScoreSubmission(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}

	var req services.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err, err.Error())
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validator.ToValidationErrors(err))
		return
	}

	h.LogRequest(c, "Scoring submission", "framework_id", req.FrameworkID, "answers", len(req.Answers))

	resp, err := h.classificationService.Score(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Submission scored",
		"result_id", resp.Result.ID,
		"primary_frequency", resp.Result.PrimaryFrequency,
		"dropped", len(resp.Dropped))
	c.JSON(http.StatusCreated, resp)
}

// PreviewSubmission classifies a submission without storing it
// @Summary Preview submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param request body services.ScoreRequest true "Submission"
// @Success 200 {object} services.PreviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/preview [post]
func (h *ClassificationHandler) PreviewSubmission(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}

	var req services.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err, err.Error())
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validator.ToValidationErrors(err))
		return
	}

	resp, err := h.classificationService.Preview(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetResult returns a stored classification
// @Summary Get result
// @Tags results
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path uint true "Result ID"
// @Success 200 {object} models.ClassificationResult
// @Failure 404 {object} ErrorResponse
// @Router /results/{id} [get]
func (h *ClassificationHandler) GetResult(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	result, err := h.classificationService.GetResult(c.Request.Context(), tenantID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListResults lists stored classifications
// @Summary List results
// @Tags results
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param framework_id query uint false "Framework ID"
// @Param respondent_ref query string false "Respondent reference"
// @Param primary_frequency query string false "Primary frequency code"
// @Param primary_profile query string false "Primary profile code"
// @Param date_from query string false "RFC3339 lower bound on created_at"
// @Param date_to query string false "RFC3339 upper bound on created_at"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse
// @Router /results [get]
func (h *ClassificationHandler) ListResults(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}

	filters, err := h.parseResultFilters(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return
	}

	results, total, err := h.classificationService.ListResults(c.Request.Context(), tenantID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Items:  results,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// GetReport returns the report content matching a result's lookup key
// @Summary Get result report
// @Tags results
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path uint true "Result ID"
// @Success 200 {object} services.ReportResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /results/{id}/report [get]
func (h *ClassificationHandler) GetReport(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	report, err := h.classificationService.GetReport(c.Request.Context(), tenantID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetDistribution returns primary frequency and profile counts for a framework
// @Summary Result distribution
// @Tags frameworks
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path uint true "Framework ID"
// @Success 200 {object} repositories.DistributionStats
// @Failure 404 {object} ErrorResponse
// @Router /frameworks/{id}/distribution [get]
func (h *ClassificationHandler) GetDistribution(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.classificationService.GetDistribution(c.Request.Context(), tenantID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ===== HELPER METHODS =====

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (h *ClassificationHandler) parseResultFilters(c *gin.Context) (repositories.ResultFilters, error) {
	page := h.parseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	size := h.parseIntQuery(c, "size", defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)

	filters := repositories.ResultFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: strings.ToLower(c.Query("sort_order")),
	}

	if raw := c.Query("framework_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filters, err
		}
		fid := uint(id)
		filters.FrameworkID = &fid
	}
	if v := c.Query("respondent_ref"); v != "" {
		filters.RespondentRef = &v
	}
	if v := c.Query("primary_frequency"); v != "" {
		filters.PrimaryFrequency = &v
	}
	if v := c.Query("primary_profile"); v != "" {
		filters.PrimaryProfile = &v
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, err
		}
		filters.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, err
		}
		filters.DateTo = &t
	}

	return filters, nil
}
