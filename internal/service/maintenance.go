package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/completeinfo/internal/database"
)

// MaintenanceService houses destructive actions on the local database.
type MaintenanceService struct {
	DB *sql.DB
}

// ClearHistory deletes every recorded fetch and returns how many rows went.
// The schema is kept so later fetches can record again.
func (s *MaintenanceService) ClearHistory(ctx context.Context) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var n int64
	if err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM fetch_log")
		if err != nil {
			return fmt.Errorf("clear fetch_log: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return n, nil
}
