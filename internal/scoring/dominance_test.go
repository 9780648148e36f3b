package scoring

import (
	"testing"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDominant(t *testing.T) {
	cw := NewCrosswalk(testFramework())

	tests := []struct {
		name          string
		totals        models.CategoryTotals
		wantPrimary   *string
		wantSecondary *string
	}{
		{
			name:          "clear order",
			totals:        models.CategoryTotals{"A": 10, "B": 50, "C": 30, "D": 0},
			wantPrimary:   stringPtr("B"),
			wantSecondary: stringPtr("C"),
		},
		{
			name:        "single positive",
			totals:      models.CategoryTotals{"A": 0, "B": 0, "C": 5, "D": 0},
			wantPrimary: stringPtr("C"),
		},
		{
			name:   "all zero",
			totals: models.CategoryTotals{"A": 0, "B": 0, "C": 0, "D": 0},
		},
		{
			name:   "empty",
			totals: models.CategoryTotals{},
		},
		{
			name:          "tie broken by declared order",
			totals:        models.CategoryTotals{"D": 40, "B": 40, "C": 10},
			wantPrimary:   stringPtr("B"),
			wantSecondary: stringPtr("D"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, secondary := SelectDominant(tt.totals, cw.FrequencyOrdinal)
			assert.Equal(t, tt.wantPrimary, primary)
			assert.Equal(t, tt.wantSecondary, secondary)
		})
	}
}

func TestRank_DeclaredOrderNotAlphabetical(t *testing.T) {
	fw := testFramework()
	fw.Config.Frequencies = []models.FrequencyDefinition{
		{Code: models.FrequencyD, Name: "Steel"},
		{Code: models.FrequencyC, Name: "Tempo"},
		{Code: models.FrequencyB, Name: "Blaze"},
		{Code: models.FrequencyA, Name: "Dynamo"},
	}
	cw := NewCrosswalk(fw)

	ranked := Rank(models.CategoryTotals{"A": 20, "D": 20, "B": 20}, cw.FrequencyOrdinal)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"D", "B", "A"}, []string{ranked[0].Code, ranked[1].Code, ranked[2].Code})
}

func TestRank_UnknownCodesSortAfterDeclared(t *testing.T) {
	cw := NewCrosswalk(testFramework())

	ranked := Rank(models.CategoryTotals{"Z": 5, "P9": 5, "P2": 5}, cw.ProfileOrdinal)
	require.Len(t, ranked, 3)
	assert.Equal(t, "P2", ranked[0].Code)
	assert.Equal(t, "P9", ranked[1].Code)
	assert.Equal(t, "Z", ranked[2].Code)
}

func TestRank_NilOrdinalFallsBackToCode(t *testing.T) {
	ranked := Rank(models.CategoryTotals{"b": 1, "a": 1}, nil)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].Code)
}

func TestCombinedCode(t *testing.T) {
	assert.Equal(t, stringPtr("DRIVER_GROWTH"), CombinedCode(stringPtr("DRIVER"), stringPtr("GROWTH")))
	assert.Nil(t, CombinedCode(stringPtr("DRIVER"), nil))
	assert.Nil(t, CombinedCode(nil, stringPtr("GROWTH")))
	assert.Nil(t, CombinedCode(nil, nil))
	assert.Nil(t, CombinedCode(stringPtr(""), stringPtr("GROWTH")))
}
