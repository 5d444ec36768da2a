package repository

import (
	"context"

	"github.com/ktoiv/epistemo-hippodrome/internal/models"
)

// unavailableRepository stands in when the performance store could not be
// reached at startup. Every query fails with a StoreError, which the form
// scorer degrades to a zero score, so the service stays up without form
// data instead of refusing to boot.
type unavailableRepository struct {
	cause error
}

// NewUnavailableRepository creates a repository whose queries always fail
func NewUnavailableRepository(cause error) PerformanceRepository {
	return &unavailableRepository{cause: cause}
}

func (r *unavailableRepository) CountPerformances(ctx context.Context, filter PerformanceFilter) (int64, error) {
	return 0, models.NewStoreError("performance store unavailable", r.cause)
}
