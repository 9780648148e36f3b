package scoring

import (
	"strings"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

// Selection is a normalized answer: a zero-based choice index for one
// question. OK is false when the answer selects nothing usable.
type Selection struct {
	QuestionID uint
	Index      int
	OK         bool
}

func noSelection(questionID uint) Selection {
	return Selection{QuestionID: questionID}
}

// Normalize reduces a raw answer to a Selection against q. Each answer shape
// has its own rule; anything else is no selection. Ordinals (shape d) are the
// only 1-based input and are corrected here.
func Normalize(q *models.Question, answer models.RawAnswer, cw *Crosswalk) Selection {
	var (
		index int
		ok    bool
	)

	switch answer.Shape {
	case models.ShapeEmbeddedOptions:
		index, ok = normalizeEmbedded(q, answer, cw)
	case models.ShapeSelectedOption:
		if answer.SelectedOption != nil {
			index, ok = locateOption(q, *answer.SelectedOption, cw)
		}
	case models.ShapeValue:
		index, ok = normalizeValue(q, answer.Value, cw)
	case models.ShapeOrdinal:
		if answer.Ordinal != nil {
			index, ok = *answer.Ordinal-1, true
		}
	}

	if !ok || index < 0 || index >= choiceCount(q) {
		return noSelection(q.ID)
	}
	return Selection{QuestionID: q.ID, Index: index, OK: true}
}

func normalizeEmbedded(q *models.Question, answer models.RawAnswer, cw *Crosswalk) (int, bool) {
	if answer.Selected == nil {
		return 0, false
	}
	selected := *answer.Selected
	if selected < 0 || selected >= len(answer.Options) {
		return 0, false
	}
	option := answer.Options[selected]
	if option.Identified() {
		if index, ok := locateOption(q, option, cw); ok {
			return index, true
		}
	}
	// options without a usable identity mirror the question's own order
	return selected, true
}

func normalizeValue(q *models.Question, value *models.AnswerValue, cw *Crosswalk) (int, bool) {
	if value == nil {
		return 0, false
	}
	if value.Index != nil {
		return *value.Index, true
	}
	if value.Profile.IsEmpty() {
		return 0, false
	}
	return locateOption(q, models.AnswerOption{Profile: value.Profile, Points: value.Points}, cw)
}

// locateOption finds the weight-table index described by an embedded option.
// An explicit index wins, then a choice-label match, then the first entry
// whose category references and points all agree with the option.
func locateOption(q *models.Question, option models.AnswerOption, cw *Crosswalk) (int, bool) {
	if option.Index != nil {
		return *option.Index, true
	}

	if text := strings.TrimSpace(option.Text); text != "" {
		for i, choice := range q.Choices {
			if strings.EqualFold(strings.TrimSpace(choice), text) {
				return i, true
			}
		}
	}

	if option.Profile.IsEmpty() && option.Frequency.IsEmpty() && option.Points == nil {
		return 0, false
	}

	for i, entry := range q.Table() {
		if !option.Profile.IsEmpty() && !sameCategory(q, cw, option.Profile, entry.ProfileCode) {
			continue
		}
		if !option.Frequency.IsEmpty() && !sameCategory(q, cw, option.Frequency, entry.FrequencyCode) {
			continue
		}
		if option.Points != nil && (entry.Points == nil || *entry.Points != *option.Points) {
			continue
		}
		return i, true
	}
	return 0, false
}

func sameCategory(q *models.Question, cw *Crosswalk, a, b models.CodeRef) bool {
	ra, okA := resolveFor(q, cw, a.String())
	rb, okB := resolveFor(q, cw, b.String())
	if !okA || !okB {
		return false
	}
	return ra == rb
}

// resolveFor resolves a reference in the code space the question scores into.
func resolveFor(q *models.Question, cw *Crosswalk, raw string) (CategoryRef, bool) {
	if q.Layer != "" {
		if ref, ok := cw.ResolveLayer(q.Layer, raw); ok {
			return ref, true
		}
	}
	return cw.Resolve(raw)
}

// choiceCount is the number of selectable choices for q.
func choiceCount(q *models.Question) int {
	if n := len(q.Table()); n > 0 {
		return n
	}
	return len(q.Choices)
}
