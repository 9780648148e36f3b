package scoring

import (
	"fmt"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func entry(points float64, profile, frequency string) models.WeightEntry {
	return models.WeightEntry{
		Points:        floatPtr(points),
		ProfileCode:   models.CodeRef(profile),
		FrequencyCode: models.CodeRef(frequency),
	}
}

func testFramework() *models.Framework {
	return &models.Framework{
		ID:       1,
		TenantID: "tenant-a",
		Name:     "Default",
		Config: models.CategoryConfig{
			Frequencies: []models.FrequencyDefinition{
				{Code: models.FrequencyA, Name: "Dynamo"},
				{Code: models.FrequencyB, Name: "Blaze"},
				{Code: models.FrequencyC, Name: "Tempo"},
				{Code: models.FrequencyD, Name: "Steel"},
			},
			Profiles: []models.ProfileDefinition{
				{Code: "P1", Name: "Creator", PrimaryFrequency: models.FrequencyA},
				{Code: "P2", Name: "Star", PrimaryFrequency: models.FrequencyA},
				{Code: "P3", Name: "Supporter", PrimaryFrequency: models.FrequencyB},
				{Code: "P4", Name: "Deal Maker", PrimaryFrequency: models.FrequencyB},
				{Code: "P5", Name: "Trader", PrimaryFrequency: models.FrequencyC},
				{Code: "P6", Name: "Accumulator", PrimaryFrequency: models.FrequencyC},
				{Code: "P7", Name: "Lord", PrimaryFrequency: models.FrequencyD},
				{Code: "P8", Name: "Mechanic", PrimaryFrequency: models.FrequencyD},
			},
			NameLookup: map[string]string{
				"The Creator": "P1",
				"Wheeler":     "P4",
			},
		},
	}
}

// testQuestions builds the 15-question bank: choice j is worth 10*(j+1)
// points. The 40-point choice is always a frequency A profile, the 30-point
// choice frequency B, the 20-point choice C and the 10-point choice D. Odd
// questions use the first profile of each frequency, even ones the second.
// Profile references are spelled differently across questions.
func testQuestions() []models.Question {
	questions := make([]models.Question, 0, 15)
	for i := 1; i <= 15; i++ {
		offset := 0
		if i%2 == 0 {
			offset = 1
		}
		spell := func(n int) string {
			switch i % 3 {
			case 0:
				return fmt.Sprintf("P%d", n)
			case 1:
				return fmt.Sprintf("%d", n)
			default:
				return fmt.Sprintf("PROFILE_%d", n)
			}
		}
		questions = append(questions, models.Question{
			ID:       uint(100 + i),
			Order:    i,
			Category: models.QuestionScored,
			ProfileMap: models.WeightTable{
				entry(10, spell(7+offset), "D"),
				entry(20, spell(5+offset), "C"),
				entry(30, spell(3+offset), "B"),
				entry(40, spell(1+offset), "A"),
			},
		})
	}
	return questions
}

func questionID(order int) uint {
	return uint(100 + order)
}

func layeredFramework() *models.Framework {
	fw := testFramework()
	fw.Config.Layers = []models.LayerDefinition{
		{
			Key: "personality",
			Codes: []models.LayerCodeDefinition{
				{Code: "EXPRESSIVE", Name: "Expressive"},
				{Code: "AMIABLE", Name: "Amiable"},
				{Code: "ANALYTICAL", Name: "Analytical"},
				{Code: "DRIVER", Name: "Driver"},
			},
		},
		{
			Key: "mindset",
			Codes: []models.LayerCodeDefinition{
				{Code: "GROWTH", Name: "Growth"},
				{Code: "FIXED", Name: "Fixed"},
				{Code: "OPEN", Name: "Open"},
				{Code: "GUARDED", Name: "Guarded"},
				{Code: "BALANCED", Name: "Balanced"},
			},
		},
	}
	return fw
}

func layeredQuestions() []models.Question {
	return []models.Question{
		{
			ID: 1, Order: 1, Category: models.QuestionScored, Layer: "personality",
			ProfileMap: models.WeightTable{
				entry(10, "EXPRESSIVE", ""),
				entry(20, "Amiable", ""),
				entry(30, "ANALYTICAL", ""),
				entry(40, "DRIVER", ""),
			},
		},
		{
			ID: 2, Order: 2, Category: models.QuestionScored, Layer: "mindset",
			ProfileMap: models.WeightTable{
				entry(10, "GROWTH", ""),
				entry(20, "FIXED", ""),
				entry(30, "OPEN", ""),
				entry(40, "guarded", ""),
			},
		},
		{
			ID: 3, Order: 3, Category: models.QuestionQualitative,
			Choices: []string{"Morning", "Evening"},
		},
	}
}

func ordinal(questionID uint, n int) models.AnswerRecord {
	return models.AnswerRecord{QuestionID: questionID, Answer: models.OrdinalAnswer(n)}
}
