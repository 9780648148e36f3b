package services

import (
	"log/slog"

	"github.com/SAP-F-2025/classification-service/internal/events"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"github.com/SAP-F-2025/classification-service/internal/validator"
)

// ServiceManager hands out the services the transport layer needs.
type ServiceManager interface {
	Classification() ClassificationService
	ImportExport() ImportExportService
}

type serviceManager struct {
	classification ClassificationService
	importExport   ImportExportService
}

type ServiceDeps struct {
	Repo      repositories.Repository
	Source    FrameworkSource
	Publisher events.EventPublisher
	Validator *validator.Validator
	Metrics   *Metrics
	Logger    *slog.Logger
}

func NewServiceManager(deps ServiceDeps) ServiceManager {
	if deps.Source == nil {
		deps.Source = NewDirectFrameworkSource(deps.Repo)
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	return &serviceManager{
		classification: NewClassificationService(deps.Repo, deps.Source, deps.Publisher, deps.Validator, deps.Metrics, deps.Logger),
		importExport:   NewImportExportService(deps.Repo, deps.Source, deps.Publisher, deps.Validator, deps.Metrics, deps.Logger),
	}
}

func (m *serviceManager) Classification() ClassificationService { return m.classification }
func (m *serviceManager) ImportExport() ImportExportService     { return m.importExport }
