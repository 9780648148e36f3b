package scoring

import (
	"cmp"
	"slices"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

// Report is the outcome of one scoring pass: the classification plus the
// data-quality notes collected while producing it.
type Report struct {
	Classification models.Classification
	Dropped        []DroppedContribution
	AnsweredCount  int
	ScoredCount    int
}

// Score classifies answers against questions under framework. Questions are
// visited in ascending (order, id); answers to unknown questions are dropped
// and the last answer for a question wins over earlier duplicates.
func Score(framework *models.Framework, questions []models.Question, answers []models.AnswerRecord) Report {
	cw := NewCrosswalk(framework)
	agg := NewAggregator(framework, cw)

	byQuestion := make(map[uint]models.RawAnswer, len(answers))
	known := make(map[uint]bool, len(questions))
	for i := range questions {
		known[questions[i].ID] = true
	}

	var preDropped []DroppedContribution
	for _, rec := range answers {
		if !known[rec.QuestionID] {
			preDropped = append(preDropped, DroppedContribution{QuestionID: rec.QuestionID, Reason: DropUnknownQuestion})
			continue
		}
		if _, dup := byQuestion[rec.QuestionID]; dup {
			preDropped = append(preDropped, DroppedContribution{QuestionID: rec.QuestionID, Reason: DropDuplicateAnswer})
		}
		byQuestion[rec.QuestionID] = rec.Answer
	}

	ordered := make([]*models.Question, 0, len(questions))
	for i := range questions {
		ordered = append(ordered, &questions[i])
	}
	slices.SortStableFunc(ordered, func(x, y *models.Question) int {
		if c := cmp.Compare(x.Order, y.Order); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})

	seen := make(map[uint]bool, len(ordered))
	for _, q := range ordered {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		answer, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		agg.Add(q, answer)
	}

	result := models.Classification{
		FrequencyTotals:      agg.FrequencyTotals(),
		ProfileTotals:        agg.ProfileTotals(),
		FrequencyPercentages: Percentages(agg.FrequencyTotals()),
		ProfilePercentages:   Percentages(agg.ProfileTotals()),
	}
	result.PrimaryFrequency, result.SecondaryFrequency = SelectDominant(agg.FrequencyTotals(), cw.FrequencyOrdinal)
	result.PrimaryProfile, result.SecondaryProfile = SelectDominant(agg.ProfileTotals(), cw.ProfileOrdinal)

	if layers := framework.Config.Layers; len(layers) > 0 {
		result.LayerTotals = make(map[string]models.CategoryTotals, len(layers))
		result.LayerPercentages = make(map[string]models.CategoryPercentages, len(layers))
		result.LayerPrimaries = make(map[string]*string, len(layers))
		for _, layer := range layers {
			totals := agg.LayerTotals(layer.Key)
			result.LayerTotals[layer.Key] = totals
			result.LayerPercentages[layer.Key] = Percentages(totals)
			result.LayerPrimaries[layer.Key], _ = SelectDominant(totals, cw.LayerOrdinal(layer.Key))
		}
		if framework.Layered() {
			result.CombinedCode = CombinedCode(
				result.LayerPrimaries[layers[0].Key],
				result.LayerPrimaries[layers[1].Key],
			)
		}
	}

	return Report{
		Classification: result,
		Dropped:        append(preDropped, agg.Dropped()...),
		AnsweredCount:  len(byQuestion),
		ScoredCount:    agg.ScoredCount(),
	}
}
