package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type QuestionCategory string

const (
	QuestionScored      QuestionCategory = "scored"
	QuestionQualitative QuestionCategory = "qualitative"
)

// WeightEntry is one selectable choice of a question's weight table.
type WeightEntry struct {
	Points        *float64 `json:"points,omitempty" yaml:"points"`
	ProfileCode   CodeRef  `json:"profile_code,omitempty" yaml:"profile_code"`
	FrequencyCode CodeRef  `json:"frequency_code,omitempty" yaml:"frequency_code"`
}

func (e *WeightEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Points        json.RawMessage `json:"points"`
		ProfileCode   CodeRef         `json:"profile_code"`
		Profile       CodeRef         `json:"profile"`
		FrequencyCode CodeRef         `json:"frequency_code"`
		Freq          CodeRef         `json:"freq"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Points = parsePoints(raw.Points)
	e.ProfileCode = raw.ProfileCode
	if e.ProfileCode.IsEmpty() {
		e.ProfileCode = raw.Profile
	}
	e.FrequencyCode = raw.FrequencyCode
	if e.FrequencyCode.IsEmpty() {
		e.FrequencyCode = raw.Freq
	}
	return nil
}

// parsePoints returns nil for missing or non-numeric point values.
func parsePoints(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		n = json.Number(s)
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}

// WeightTable is an ordered list of entries indexed by zero-based choice.
type WeightTable []WeightEntry

// UnmarshalJSON tolerates one level of string wrapping. Entries are decoded
// one by one: a malformed entry becomes a zero WeightEntry so the remaining
// choices keep their index. A table that is not an array is treated as empty.
func (t *WeightTable) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	payload, err := unwrapOnce(data)
	if err == nil {
		err = json.Unmarshal(payload, &raw)
	}
	if err != nil || raw == nil {
		*t = nil
		return nil
	}

	entries := make(WeightTable, len(raw))
	for i, item := range raw {
		var entry WeightEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			entry = WeightEntry{}
		}
		entries[i] = entry
	}
	*t = entries
	return nil
}

// At returns the entry at index, or false when index is out of range.
func (t WeightTable) At(index int) (WeightEntry, bool) {
	if index < 0 || index >= len(t) {
		return WeightEntry{}, false
	}
	return t[index], true
}

type Question struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	FrameworkID uint             `json:"framework_id" gorm:"not null;index"`
	Order       int              `json:"order" gorm:"not null" validate:"required,min=1"`
	Category    QuestionCategory `json:"category" gorm:"not null;size:20;default:scored" validate:"required,question_category"`
	Layer       string           `json:"layer,omitempty" gorm:"size:50" validate:"omitempty,max=50"`
	Text        string           `json:"text" gorm:"type:text"`
	Choices     []string         `json:"choices,omitempty" gorm:"type:jsonb;serializer:json"`
	ProfileMap  WeightTable      `json:"profile_map,omitempty" gorm:"type:jsonb;serializer:json"`
	Weights     WeightTable      `json:"weights,omitempty" gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}

// Table returns the question's active weight table. profile_map takes
// precedence over weights when both are present.
func (q *Question) Table() WeightTable {
	if len(q.ProfileMap) > 0 {
		return q.ProfileMap
	}
	return q.Weights
}

func (q *Question) IsScored() bool {
	return q.Category == QuestionScored || q.Category == ""
}
