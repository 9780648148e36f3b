package scoring

import (
	"cmp"
	"slices"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

// OrdinalFunc reports the declared position of a code within its axis.
type OrdinalFunc func(code string) (int, bool)

// RankedCategory is one non-zero entry of a totals map.
type RankedCategory struct {
	Code  string
	Value float64
}

// Rank returns the positive entries of totals ordered by value descending.
// Ties are broken by declared framework order, then by code, so the ranking
// never depends on map iteration order.
func Rank(totals models.CategoryTotals, ordinal OrdinalFunc) []RankedCategory {
	ranked := make([]RankedCategory, 0, len(totals))
	for code, v := range totals {
		if v > 0 {
			ranked = append(ranked, RankedCategory{Code: code, Value: v})
		}
	}

	slices.SortFunc(ranked, func(x, y RankedCategory) int {
		if c := cmp.Compare(y.Value, x.Value); c != 0 {
			return c
		}
		return compareDeclared(x.Code, y.Code, ordinal)
	})
	return ranked
}

func compareDeclared(x, y string, ordinal OrdinalFunc) int {
	if ordinal != nil {
		xi, xok := ordinal(x)
		yi, yok := ordinal(y)
		switch {
		case xok && yok:
			if c := cmp.Compare(xi, yi); c != 0 {
				return c
			}
		case xok:
			return -1
		case yok:
			return 1
		}
	}
	return cmp.Compare(x, y)
}

// SelectDominant returns the highest and second-highest positive categories.
// Either result is nil when not enough positive entries exist.
func SelectDominant(totals models.CategoryTotals, ordinal OrdinalFunc) (primary, secondary *string) {
	ranked := Rank(totals, ordinal)
	if len(ranked) > 0 {
		primary = stringPtr(ranked[0].Code)
	}
	if len(ranked) > 1 {
		secondary = stringPtr(ranked[1].Code)
	}
	return primary, secondary
}

func stringPtr(s string) *string {
	return &s
}
