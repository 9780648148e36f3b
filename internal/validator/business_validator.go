package validator

import (
	"fmt"

	"github.com/SAP-F-2025/classification-service/internal/errors"
	"github.com/SAP-F-2025/classification-service/internal/models"
)

// BusinessValidator checks cross-field rules that struct tags cannot express.
type BusinessValidator struct{}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{}
}

// Validate dispatches on the concrete type; unknown types have no rules.
func (v *BusinessValidator) Validate(s interface{}) ValidationErrors {
	switch value := s.(type) {
	case *models.Framework:
		return v.ValidateCategoryConfig(&value.Config)
	case models.Framework:
		return v.ValidateCategoryConfig(&value.Config)
	case *models.CategoryConfig:
		return v.ValidateCategoryConfig(value)
	default:
		return nil
	}
}

// ValidateCategoryConfig enforces unique codes per axis and that every
// profile is owned by exactly one declared frequency.
func (v *BusinessValidator) ValidateCategoryConfig(cfg *models.CategoryConfig) ValidationErrors {
	var errs ValidationErrors

	frequencies := make(map[models.Frequency]bool, len(cfg.Frequencies))
	for i, f := range cfg.Frequencies {
		if frequencies[f.Code] {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				fmt.Sprintf("frequencies[%d].code", i), "must not contain duplicate codes", "unique_codes", f.Code))
		}
		frequencies[f.Code] = true
	}

	profiles := make(map[models.ProfileCode]bool, len(cfg.Profiles))
	for i, p := range cfg.Profiles {
		if profiles[p.Code] {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				fmt.Sprintf("profiles[%d].code", i), "must not contain duplicate codes", "unique_codes", p.Code))
		}
		profiles[p.Code] = true

		if !frequencies[p.PrimaryFrequency] {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				fmt.Sprintf("profiles[%d].primary_frequency", i),
				"must reference a frequency declared by the framework", "primary_frequency", p.PrimaryFrequency))
		}
	}

	layers := make(map[string]bool, len(cfg.Layers))
	for i, layer := range cfg.Layers {
		if layers[layer.Key] {
			errs = append(errs, *errors.NewValidationErrorWithRule(
				fmt.Sprintf("layers[%d].key", i), "must not contain duplicate codes", "unique_codes", layer.Key))
		}
		layers[layer.Key] = true

		codes := make(map[models.LayerCode]bool, len(layer.Codes))
		for j, lc := range layer.Codes {
			if codes[lc.Code] {
				errs = append(errs, *errors.NewValidationErrorWithRule(
					fmt.Sprintf("layers[%d].codes[%d].code", i, j), "must not contain duplicate codes", "unique_codes", lc.Code))
			}
			codes[lc.Code] = true
		}
	}

	return errs
}
