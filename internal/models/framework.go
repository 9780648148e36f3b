package models

import (
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// Frequency is one of the four top-level frequency categories.
type Frequency string

const (
	FrequencyA Frequency = "A"
	FrequencyB Frequency = "B"
	FrequencyC Frequency = "C"
	FrequencyD Frequency = "D"
)

// AllFrequencies lists the frequency codes in canonical order.
var AllFrequencies = []Frequency{FrequencyA, FrequencyB, FrequencyC, FrequencyD}

// ParseFrequency accepts only the exact canonical letters.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(s) {
	case FrequencyA, FrequencyB, FrequencyC, FrequencyD:
		return Frequency(s), true
	}
	return "", false
}

// ProfileCode is a canonical profile code such as "P3".
type ProfileCode string

// LayerCode is a canonical code inside one classification layer.
type LayerCode string

type FrequencyDefinition struct {
	Code Frequency `json:"code" yaml:"code" validate:"required,frequency_code"`
	Name string    `json:"name" yaml:"name" validate:"required,max=100"`
}

type ProfileDefinition struct {
	Code             ProfileCode `json:"code" yaml:"code" validate:"required,max=32"`
	Name             string      `json:"name" yaml:"name" validate:"required,max=100"`
	PrimaryFrequency Frequency   `json:"primary_frequency" yaml:"primary_frequency" validate:"required,frequency_code"`
}

type LayerCodeDefinition struct {
	Code LayerCode `json:"code" yaml:"code" validate:"required,max=32"`
	Name string    `json:"name" yaml:"name" validate:"omitempty,max=100"`
}

// LayerDefinition describes one independent classification layer, e.g.
// "personality" or "mindset".
type LayerDefinition struct {
	Key   string                `json:"key" yaml:"key" validate:"required,max=50"`
	Name  string                `json:"name" yaml:"name" validate:"omitempty,max=100"`
	Codes []LayerCodeDefinition `json:"codes" yaml:"codes" validate:"required,min=1,dive"`
}

// CategoryConfig is the tenant's taxonomy. It is persisted as a single JSON
// column and tolerates a double-encoded payload on read.
type CategoryConfig struct {
	Frequencies []FrequencyDefinition `json:"frequencies" yaml:"frequencies" validate:"required,min=1,max=4,dive"`
	Profiles    []ProfileDefinition   `json:"profiles" yaml:"profiles" validate:"required,min=1,dive"`
	NameLookup  map[string]string     `json:"name_lookup,omitempty" yaml:"name_lookup"`
	Layers      []LayerDefinition     `json:"layers,omitempty" yaml:"layers" validate:"omitempty,max=2,dive"`
}

// UnmarshalJSON decodes the config, unwrapping one level of string encoding.
// When neither the unwrapped nor the raw value decodes, the config is left
// empty and the problem is logged; scoring against an empty config yields an
// all-null classification instead of failing the read.
func (c *CategoryConfig) UnmarshalJSON(data []byte) error {
	type plain CategoryConfig
	var out plain
	err := decodeMaybeWrapped(data, &out)
	if err != nil {
		out = plain{}
		if rawErr := json.Unmarshal(data, &out); rawErr != nil {
			slog.Warn("Malformed category config, using empty config", "error", err)
			*c = CategoryConfig{}
			return nil
		}
	}
	*c = CategoryConfig(out)
	return nil
}

type Framework struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    string         `json:"tenant_id" gorm:"not null;size:64;index" validate:"required,max=64"`
	Name        string         `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string        `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Config      CategoryConfig `json:"config" gorm:"type:jsonb;serializer:json" validate:"required"`
	Version     int            `json:"version" gorm:"default:1"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:FrameworkID"`
}

func (Framework) TableName() string {
	return "frameworks"
}

// Layered reports whether the framework splits profiles into two layers.
func (f *Framework) Layered() bool {
	return len(f.Config.Layers) >= 2
}

// Layer returns the layer definition for key.
func (f *Framework) Layer(key string) (*LayerDefinition, bool) {
	for i := range f.Config.Layers {
		if f.Config.Layers[i].Key == key {
			return &f.Config.Layers[i], true
		}
	}
	return nil, false
}
