package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

// Seed is the on-disk description of frameworks, their question banks and
// narrative report content.
type Seed struct {
	Frameworks []SeedFramework `yaml:"frameworks"`
}

type SeedFramework struct {
	TenantID    string                `yaml:"tenant_id"`
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Config      models.CategoryConfig `yaml:"config"`
	Questions   []SeedQuestion        `yaml:"questions"`
	Reports     []SeedReport          `yaml:"reports"`
}

type SeedQuestion struct {
	Order      int                  `yaml:"order"`
	Category   string               `yaml:"category"`
	Layer      string               `yaml:"layer"`
	Text       string               `yaml:"text"`
	Choices    []string             `yaml:"choices"`
	ProfileMap []models.WeightEntry `yaml:"profile_map"`
	Weights    []models.WeightEntry `yaml:"weights"`
}

type SeedReport struct {
	LookupKey string         `yaml:"lookup_key"`
	Title     string         `yaml:"title"`
	Summary   string         `yaml:"summary"`
	Sections  map[string]any `yaml:"sections"`
}

// LoadSeed reads and decodes a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return ParseSeed(f)
}

func ParseSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}

	for i, fw := range seed.Frameworks {
		if fw.TenantID == "" || fw.Name == "" {
			return nil, fmt.Errorf("seed framework %d requires tenant_id and name", i)
		}
	}
	return &seed, nil
}

// Framework converts the seed entry into its model.
func (s SeedFramework) Framework() *models.Framework {
	fw := &models.Framework{
		TenantID: s.TenantID,
		Name:     s.Name,
		Config:   s.Config,
	}
	if s.Description != "" {
		desc := s.Description
		fw.Description = &desc
	}
	return fw
}

func (s SeedFramework) QuestionModels() []*models.Question {
	questions := make([]*models.Question, 0, len(s.Questions))
	for _, sq := range s.Questions {
		category := models.QuestionCategory(sq.Category)
		if category == "" {
			category = models.QuestionScored
		}
		questions = append(questions, &models.Question{
			Order:      sq.Order,
			Category:   category,
			Layer:      sq.Layer,
			Text:       sq.Text,
			Choices:    sq.Choices,
			ProfileMap: models.WeightTable(sq.ProfileMap),
			Weights:    models.WeightTable(sq.Weights),
		})
	}
	return questions
}

func (s SeedReport) Model(frameworkID uint) (*models.ReportContent, error) {
	content := &models.ReportContent{
		FrameworkID: frameworkID,
		LookupKey:   s.LookupKey,
		Title:       s.Title,
		Summary:     s.Summary,
	}
	if len(s.Sections) > 0 {
		sections, err := json.Marshal(s.Sections)
		if err != nil {
			return nil, fmt.Errorf("report %s sections: %w", s.LookupKey, err)
		}
		content.Sections = datatypes.JSON(sections)
	}
	return content, nil
}

// Apply creates missing frameworks and refreshes their question banks and
// report content. Frameworks that already exist keep their configuration.
func (s *Seed) Apply(ctx context.Context, repo repositories.Repository, logger *slog.Logger) error {
	for _, sf := range s.Frameworks {
		fw, err := repo.Framework().GetByName(ctx, sf.TenantID, sf.Name)
		switch {
		case repositories.IsNotFoundError(err):
			fw = sf.Framework()
			if err := repo.Framework().Create(ctx, fw); err != nil {
				return err
			}
			logger.Info("Seeded framework", "tenant_id", fw.TenantID, "framework_id", fw.ID, "name", fw.Name)
		case err != nil:
			return fmt.Errorf("failed to look up framework %s: %w", sf.Name, err)
		}

		if len(sf.Questions) > 0 {
			if err := repo.Question().ReplaceForFramework(ctx, fw.ID, sf.QuestionModels()); err != nil {
				return err
			}
		}

		for _, sr := range sf.Reports {
			content, err := sr.Model(fw.ID)
			if err != nil {
				return err
			}
			if err := repo.ReportContent().Upsert(ctx, content); err != nil {
				return fmt.Errorf("failed to seed report %s: %w", sr.LookupKey, err)
			}
		}

		logger.Info("Seed applied",
			"framework_id", fw.ID,
			"questions", len(sf.Questions),
			"reports", len(sf.Reports))
	}
	return nil
}
