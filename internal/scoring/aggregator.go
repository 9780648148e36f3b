package scoring

import (
	"github.com/SAP-F-2025/classification-service/internal/models"
)

// DropReason explains why an answer or reference contributed nothing.
type DropReason string

const (
	DropUnknownQuestion  DropReason = "unknown_question"
	DropDuplicateAnswer  DropReason = "duplicate_answer"
	DropQualitative      DropReason = "qualitative_question"
	DropNoSelection      DropReason = "no_selection"
	DropNoWeight         DropReason = "no_weight_entry"
	DropUnknownCode      DropReason = "unknown_category_code"
	DropUnknownLayer     DropReason = "unknown_layer"
	DropMissingPrimary   DropReason = "missing_primary_frequency"
	DropConflictingField DropReason = "superseded_frequency_ref"
	DropLayerFrequency   DropReason = "layer_frequency_ref"
)

// DroppedContribution is a data-quality note; it is not part of the result.
type DroppedContribution struct {
	QuestionID uint       `json:"question_id"`
	Reason     DropReason `json:"reason"`
	Ref        string     `json:"ref,omitempty"`
}

// Aggregator accumulates points per category for one submission. It is not
// safe for concurrent use; each scoring pass owns its own Aggregator.
type Aggregator struct {
	cw        *Crosswalk
	frequency models.CategoryTotals
	profile   models.CategoryTotals
	layers    map[string]models.CategoryTotals
	dropped   []DroppedContribution
	scored    int
}

// NewAggregator seeds every framework code with zero so that empty axes still
// report their keys.
func NewAggregator(framework *models.Framework, cw *Crosswalk) *Aggregator {
	a := &Aggregator{
		cw:        cw,
		frequency: make(models.CategoryTotals, len(framework.Config.Frequencies)),
		profile:   make(models.CategoryTotals, len(framework.Config.Profiles)),
		layers:    make(map[string]models.CategoryTotals, len(framework.Config.Layers)),
	}
	for _, f := range framework.Config.Frequencies {
		if _, ok := models.ParseFrequency(string(f.Code)); ok {
			a.frequency[string(f.Code)] = 0
		}
	}
	for _, p := range framework.Config.Profiles {
		if p.Code != "" {
			a.profile[string(p.Code)] = 0
		}
	}
	for _, layer := range framework.Config.Layers {
		totals := make(models.CategoryTotals, len(layer.Codes))
		for _, lc := range layer.Codes {
			totals[string(lc.Code)] = 0
		}
		a.layers[layer.Key] = totals
	}
	return a
}

// Add normalizes one answer for q, resolves its weight entry and credits the
// resulting points.
func (a *Aggregator) Add(q *models.Question, answer models.RawAnswer) {
	if !q.IsScored() {
		a.drop(q.ID, DropQualitative, "")
		return
	}
	sel := Normalize(q, answer, a.cw)
	if !sel.OK {
		a.drop(q.ID, DropNoSelection, answer.Shape.String())
		return
	}
	contribution, ok := ResolveWeight(q, sel.Index)
	if !ok {
		a.drop(q.ID, DropNoWeight, "")
		return
	}
	a.Credit(q.Layer, contribution)
}

// Credit routes a resolved contribution. A profile reference credits the
// profile and fans the same points into the profile's primary frequency; a
// frequency reference is credited directly only when no profile resolved.
// Layer questions credit their layer only; their frequency references are
// dropped.
func (a *Aggregator) Credit(layer string, c Contribution) {
	var profile, layerRef, frequency *CategoryRef

	for _, raw := range c.Refs {
		if layer != "" && raw.Field == RefFrequency {
			a.drop(c.QuestionID, DropLayerFrequency, raw.Value)
			continue
		}
		if layer != "" && raw.Field == RefProfile {
			if !a.cw.HasLayer(layer) {
				a.drop(c.QuestionID, DropUnknownLayer, layer)
				continue
			}
			ref, ok := a.cw.ResolveLayer(layer, raw.Value)
			if !ok {
				a.drop(c.QuestionID, DropUnknownCode, raw.Value)
				continue
			}
			layerRef = &ref
			continue
		}

		ref, ok := a.cw.Resolve(raw.Value)
		if !ok {
			a.drop(c.QuestionID, DropUnknownCode, raw.Value)
			continue
		}
		switch ref.Axis {
		case AxisProfile:
			if profile == nil {
				profile = &ref
			}
		case AxisFrequency:
			// an explicit frequency field outranks a frequency guessed from the profile field
			if frequency == nil || raw.Field == RefFrequency {
				frequency = &ref
			}
		}
	}

	credited := false
	if layerRef != nil {
		a.layers[layerRef.Layer][layerRef.Code()] += c.Points
		credited = true
	}

	switch {
	case profile != nil:
		a.profile[profile.Code()] += c.Points
		credited = true

		if f, ok := a.cw.PrimaryFrequency(profile.Profile); ok {
			a.frequency[string(f)] += c.Points
			if frequency != nil && frequency.Frequency != f {
				a.drop(c.QuestionID, DropConflictingField, string(frequency.Frequency))
			}
		} else if frequency != nil {
			a.frequency[frequency.Code()] += c.Points
		} else {
			a.drop(c.QuestionID, DropMissingPrimary, profile.Code())
		}
	case frequency != nil:
		a.frequency[frequency.Code()] += c.Points
		credited = true
	}

	if credited {
		a.scored++
	}
}

func (a *Aggregator) drop(questionID uint, reason DropReason, ref string) {
	a.dropped = append(a.dropped, DroppedContribution{QuestionID: questionID, Reason: reason, Ref: ref})
}

func (a *Aggregator) FrequencyTotals() models.CategoryTotals {
	return a.frequency
}

func (a *Aggregator) ProfileTotals() models.CategoryTotals {
	return a.profile
}

func (a *Aggregator) LayerTotals(layer string) models.CategoryTotals {
	return a.layers[layer]
}

func (a *Aggregator) Dropped() []DroppedContribution {
	return a.dropped
}

// ScoredCount is the number of answers that credited at least one axis.
func (a *Aggregator) ScoredCount() int {
	return a.scored
}
