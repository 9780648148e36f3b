package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SharedHelpers holds query helpers common to every PostgreSQL repository.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyPaginationAndSort applies a whitelisted ORDER BY plus LIMIT/OFFSET.
// Unknown sort columns fall back to created_at.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int, allowed ...string) *gorm.DB {
	column := "created_at"
	for _, candidate := range allowed {
		if candidate == sortBy {
			column = sortBy
			break
		}
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	// id keeps pages stable when the sort column has duplicates
	query = query.Order(fmt.Sprintf("%s %s, id %s", column, direction, direction))

	return query.Limit(NormalizeLimit(limit)).Offset(max(offset, 0))
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}
