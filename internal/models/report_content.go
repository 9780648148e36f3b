package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReportContent is narrative copy keyed by a classification lookup key
// (combined code or primary profile) within one framework.
type ReportContent struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	FrameworkID uint           `json:"framework_id" gorm:"not null;uniqueIndex:idx_report_content_key"`
	LookupKey   string         `json:"lookup_key" gorm:"not null;size:65;uniqueIndex:idx_report_content_key"`
	Title       string         `json:"title" gorm:"size:200"`
	Summary     string         `json:"summary" gorm:"type:text"`
	Sections    datatypes.JSON `json:"sections" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReportContent) TableName() string {
	return "report_contents"
}
