package scoring

import (
	"math"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

// RefField records which weight-entry field a raw reference came from.
type RefField int

const (
	RefProfile RefField = iota + 1
	RefFrequency
)

func (f RefField) String() string {
	if f == RefProfile {
		return "profile_code"
	}
	return "frequency_code"
}

// RawRef is an unresolved category reference taken from a weight entry.
type RawRef struct {
	Field RefField
	Value string
}

// Contribution is the point value and category references of one selected
// weight entry.
type Contribution struct {
	QuestionID uint
	Index      int
	Points     float64
	Refs       []RawRef
}

// ResolveWeight looks up the weight entry at index. A missing table, an
// out-of-range index, an unusable point value or an entry without any
// category reference all yield no contribution.
func ResolveWeight(q *models.Question, index int) (Contribution, bool) {
	entry, ok := q.Table().At(index)
	if !ok || entry.Points == nil {
		return Contribution{}, false
	}
	points := *entry.Points
	if math.IsNaN(points) || math.IsInf(points, 0) || points < 0 {
		return Contribution{}, false
	}

	var refs []RawRef
	if !entry.ProfileCode.IsEmpty() {
		refs = append(refs, RawRef{Field: RefProfile, Value: entry.ProfileCode.String()})
	}
	if !entry.FrequencyCode.IsEmpty() {
		refs = append(refs, RawRef{Field: RefFrequency, Value: entry.FrequencyCode.String()})
	}
	if len(refs) == 0 {
		return Contribution{}, false
	}

	return Contribution{
		QuestionID: q.ID,
		Index:      index,
		Points:     points,
		Refs:       refs,
	}, true
}
