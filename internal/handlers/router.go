package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classification-service/internal/services"
	"github.com/SAP-F-2025/classification-service/internal/utils"
	"github.com/SAP-F-2025/classification-service/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HandlerManager struct {
	classificationHandler *ClassificationHandler
	importExportHandler   *ImportExportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		classificationHandler: NewClassificationHandler(serviceManager.Classification(), validator, logger),
		importExportHandler:   NewImportExportHandler(serviceManager.ImportExport(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		submissions := v1.Group("/submissions")
		{
			submissions.POST("/score", hm.classificationHandler.ScoreSubmission)
			submissions.POST("/preview", hm.classificationHandler.PreviewSubmission)
		}

		results := v1.Group("/results")
		{
			results.GET("", hm.classificationHandler.ListResults)
			results.GET("/:id", hm.classificationHandler.GetResult)
			results.GET("/:id/report", hm.classificationHandler.GetReport)
		}

		frameworks := v1.Group("/frameworks")
		{
			frameworks.GET("/:id/distribution", hm.classificationHandler.GetDistribution)
			frameworks.POST("/:id/questions/import", hm.importExportHandler.ImportQuestions)
			frameworks.GET("/:id/results/export", hm.importExportHandler.ExportResults)
		}
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "classification-service",
	})
}
