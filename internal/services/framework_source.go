package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/classification-service/internal/cache"
	"github.com/SAP-F-2025/classification-service/internal/repositories"
)

// FrameworkSource resolves a framework together with its question bank.
// *cache.FrameworkCache satisfies it.
type FrameworkSource interface {
	Get(ctx context.Context, tenantID string, frameworkID uint) (*cache.Snapshot, error)
	Invalidate(ctx context.Context, tenantID string, frameworkID uint)
}

// NewSnapshotLoader reads snapshots straight from the repositories. It is the
// loader behind the framework cache.
func NewSnapshotLoader(repo repositories.Repository) cache.SnapshotLoader {
	return func(ctx context.Context, tenantID string, frameworkID uint) (*cache.Snapshot, error) {
		framework, err := repo.Framework().GetByID(ctx, tenantID, frameworkID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrFrameworkNotFound
			}
			return nil, fmt.Errorf("failed to load framework: %w", err)
		}

		questions, err := repo.Question().GetByFramework(ctx, frameworkID)
		if err != nil {
			return nil, fmt.Errorf("failed to load questions: %w", err)
		}

		return &cache.Snapshot{Framework: framework, Questions: questions}, nil
	}
}

// directSource is a FrameworkSource without caching.
type directSource struct {
	load cache.SnapshotLoader
}

func NewDirectFrameworkSource(repo repositories.Repository) FrameworkSource {
	return &directSource{load: NewSnapshotLoader(repo)}
}

func (d *directSource) Get(ctx context.Context, tenantID string, frameworkID uint) (*cache.Snapshot, error) {
	return d.load(ctx, tenantID, frameworkID)
}

func (d *directSource) Invalidate(context.Context, string, uint) {}
