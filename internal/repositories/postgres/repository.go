package postgres

import (
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	framework     repositories.FrameworkRepository
	question      repositories.QuestionRepository
	result        repositories.ResultRepository
	reportContent repositories.ReportContentRepository
}

// NewRepository wires every PostgreSQL store onto one connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		framework:     NewFrameworkPostgreSQL(db),
		question:      NewQuestionPostgreSQL(db),
		result:        NewResultPostgreSQL(db),
		reportContent: NewReportContentPostgreSQL(db),
	}
}

func (r *repository) Framework() repositories.FrameworkRepository         { return r.framework }
func (r *repository) Question() repositories.QuestionRepository           { return r.question }
func (r *repository) Result() repositories.ResultRepository               { return r.result }
func (r *repository) ReportContent() repositories.ReportContentRepository { return r.reportContent }
