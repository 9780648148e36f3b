package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/services"
	"github.com/SAP-F-2025/classification-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	maxImportFileSize = 10 << 20
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ImportExportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewImportExportHandler(importExportService services.ImportExportService, logger utils.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ImportQuestions replaces a framework's question bank from an uploaded file
// @Summary Import questions
// @Description Accepts an .xlsx or .csv file with one row per choice. Any invalid row rejects the whole import.
// @Tags frameworks
// @Accept multipart/form-data
// @Produce json
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path uint true "Framework ID"
// @Param file formData file true "Question sheet"
// @Success 200 {object} SuccessResponse{data=services.ImportResult}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /frameworks/{id}/questions/import [post]
func (h *ImportExportHandler) ImportQuestions(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}
	frameworkID := h.parseIDParam(c, "id")
	if frameworkID == 0 {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err, err.Error())
		return
	}
	if header.Size > maxImportFileSize {
		h.RespondWithError(c, http.StatusBadRequest, "File too large", nil,
			fmt.Sprintf("maximum size is %d bytes", maxImportFileSize))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".csv" {
		h.RespondWithError(c, http.StatusBadRequest, "Unsupported file type", nil, "expected .xlsx or .csv")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Cannot read uploaded file", err, err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "framework_id", frameworkID, "filename", header.Filename, "size", header.Size)

	result, err := h.importExportService.ImportQuestionsFromFile(c.Request.Context(), tenantID, frameworkID, file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Questions imported", result,
		"framework_id", frameworkID, "question_count", result.QuestionCount)
}

// ExportResults downloads a framework's results as a spreadsheet
// @Summary Export results
// @Tags frameworks
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param X-Tenant-ID header string true "Tenant ID"
// @Param id path uint true "Framework ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /frameworks/{id}/results/export [get]
func (h *ImportExportHandler) ExportResults(c *gin.Context) {
	tenantID := h.tenantID(c)
	if tenantID == "" {
		return
	}
	frameworkID := h.parseIDParam(c, "id")
	if frameworkID == 0 {
		return
	}

	data, err := h.importExportService.ExportResultsToExcel(c.Request.Context(), tenantID, frameworkID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("framework-%d-results-%s.xlsx", frameworkID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
