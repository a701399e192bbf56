package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/termjournal/internal/database"
	"github.com/jask/termjournal/internal/database/repository"
)

// MaintenanceService houses destructive actions surfaced through the shell.
type MaintenanceService struct {
	DB      *sql.DB
	Entries *repository.EntryRepo
	Logger  *zap.Logger
}

// Wipe deletes every journal entry and reports how many were removed. The
// schema and the team roster are kept.
func (s *MaintenanceService) Wipe(ctx context.Context) (int64, error) {
	if s.DB == nil || s.Entries == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var removed int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		n, err := s.Entries.DeleteAll(ctx, tx)
		if err != nil {
			return fmt.Errorf("wipe entries: %w", err)
		}
		removed = n
		return nil
	}); err != nil {
		return 0, err
	}
	s.compact(ctx)
	return removed, nil
}

// compact reclaims the freed pages. The entries are already gone, so a
// failure here is only logged.
func (s *MaintenanceService) compact(ctx context.Context) {
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil {
		logger := s.Logger
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Warn("vacuum after wipe failed", zap.Error(err))
	}
}
