package assignment

import (
	"context"

	"go.uber.org/zap"

	"vehicleservice/models"
)

// CleanupOrphanedAssignments deletes assignments whose booking no longer exists
// and returns how many were removed. Active orphans give back their workload.
func (a *DefaultWorkloadAllocator) CleanupOrphanedAssignments(ctx context.Context) (int, error) {
	rows, err := a.Assignments.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	known := make(map[string]bool)
	removed := 0
	for i := range rows {
		row := &rows[i]
		exists, seen := known[row.BookingID]
		if !seen {
			_, err := a.Bookings.GetByID(ctx, row.BookingID)
			switch {
			case err == nil:
				exists = true
			case models.IsNotFound(err):
				exists = false
			default:
				return removed, err
			}
			known[row.BookingID] = exists
		}
		if exists {
			continue
		}
		if err := a.remove(ctx, row); err != nil {
			if models.IsNotFound(err) {
				// Already removed by another writer.
				continue
			}
			return removed, err
		}
		removed++
	}

	a.Logger.Info("orphaned assignments cleaned up", zap.Int("removed", removed), zap.Int("scanned", len(rows)))
	return removed, nil
}
