package scoring

import (
	"math"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

// Percentages converts totals into rounded shares of their sum. When the sum
// is not positive every key reports 0.
func Percentages(totals models.CategoryTotals) models.CategoryPercentages {
	out := make(models.CategoryPercentages, len(totals))

	var sum float64
	for _, v := range totals {
		sum += v
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		for k := range totals {
			out[k] = 0
		}
		return out
	}

	for k, v := range totals {
		out[k] = int(math.Round(v / sum * 100))
	}
	return out
}
