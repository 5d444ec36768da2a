// Package repository provides data access to the historical-performance store.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ktoiv/epistemo-hippodrome/internal/database"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
)

// PerformanceFilter narrows a performance count query. Coach is always
// required; WinnersOnly and Since are optional refinements.
type PerformanceFilter struct {
	Coach       string
	WinnersOnly bool
	Since       *time.Time
}

// PerformanceRepository defines the read-only interface to the
// historical-performance store
type PerformanceRepository interface {
	CountPerformances(ctx context.Context, filter PerformanceFilter) (int64, error)
}

// PostgresPerformanceRepository implements PerformanceRepository for PostgreSQL
type PostgresPerformanceRepository struct {
	db *database.DB
}

// NewPostgresPerformanceRepository creates a new performance repository
func NewPostgresPerformanceRepository(db *database.DB) PerformanceRepository {
	return &PostgresPerformanceRepository{db: db}
}

// CountPerformances counts historical performance records matching the filter
func (r *PostgresPerformanceRepository) CountPerformances(ctx context.Context, filter PerformanceFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM horse_performances WHERE coach = $1`
	args := []interface{}{filter.Coach}

	if filter.WinnersOnly {
		query += ` AND winner = true`
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		query += fmt.Sprintf(` AND race_date > $%d`, len(args))
	}

	var count int64
	if err := r.db.GetPool().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, models.NewStoreError("failed to count performances", err)
	}

	return count, nil
}
