package models

import (
	"time"
)

// CategoryTotals maps a canonical code to its accumulated, non-negative points.
type CategoryTotals map[string]float64

// CategoryPercentages maps a canonical code to its rounded share of the axis.
type CategoryPercentages map[string]int

// Classification is the engine output for one submission. Nullable codes
// marshal as JSON null.
type Classification struct {
	FrequencyTotals      CategoryTotals      `json:"frequency_totals" gorm:"type:jsonb;serializer:json"`
	ProfileTotals        CategoryTotals      `json:"profile_totals" gorm:"type:jsonb;serializer:json"`
	FrequencyPercentages CategoryPercentages `json:"frequency_percentages" gorm:"type:jsonb;serializer:json"`
	ProfilePercentages   CategoryPercentages `json:"profile_percentages" gorm:"type:jsonb;serializer:json"`
	PrimaryFrequency     *string             `json:"primary_frequency" gorm:"size:32;index"`
	SecondaryFrequency   *string             `json:"secondary_frequency" gorm:"size:32"`
	PrimaryProfile       *string             `json:"primary_profile" gorm:"size:32;index"`
	SecondaryProfile     *string             `json:"secondary_profile" gorm:"size:32"`

	LayerTotals      map[string]CategoryTotals      `json:"layer_totals,omitempty" gorm:"type:jsonb;serializer:json"`
	LayerPercentages map[string]CategoryPercentages `json:"layer_percentages,omitempty" gorm:"type:jsonb;serializer:json"`
	LayerPrimaries   map[string]*string             `json:"layer_primaries,omitempty" gorm:"type:jsonb;serializer:json"`
	CombinedCode     *string                        `json:"combined_code" gorm:"size:65;index"`
}

// LookupKey is the key into narrative report content: the combined code for
// layered frameworks, otherwise the primary profile.
func (c *Classification) LookupKey() (string, bool) {
	if c.CombinedCode != nil {
		return *c.CombinedCode, true
	}
	if c.PrimaryProfile != nil {
		return *c.PrimaryProfile, true
	}
	return "", false
}

// ClassificationResult is the persisted, immutable record of one scored
// submission.
type ClassificationResult struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	TenantID      string  `json:"tenant_id" gorm:"not null;size:64;index"`
	FrameworkID   uint    `json:"framework_id" gorm:"not null;index"`
	SubmissionRef string  `json:"submission_ref" gorm:"size:100;index"`
	RespondentRef *string `json:"respondent_ref" gorm:"size:100;index"`

	AnsweredCount int `json:"answered_count"`
	ScoredCount   int `json:"scored_count"`

	Classification `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`

	Framework *Framework `json:"framework,omitempty" gorm:"foreignKey:FrameworkID"`
}

func (ClassificationResult) TableName() string {
	return "classification_results"
}
