package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tarots-ai/tarots-api/internal/domain"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
)

// BackupVersion is the envelope version written by Export and accepted by
// Import.
const BackupVersion = 1

// Backup is the portable export of the reading history.
type Backup struct {
	Version    int                     `json:"version"`
	ExportDate string                  `json:"exportDate"`
	Readings   []domain.ReadingSession `json:"readings"`
}

// BackupService exports and restores the whole reading history.
type BackupService struct {
	history ReadingHistory
	logger  *slog.Logger
}

// NewBackupService creates a BackupService.
func NewBackupService(history ReadingHistory, log *slog.Logger) (*BackupService, error) {
	if history == nil {
		return nil, &ServiceError{Service: "backup", Operation: "create_service", Err: errors.New("history cannot be nil")}
	}
	if log == nil {
		log = slog.Default()
	}
	return &BackupService{
		history: history,
		logger:  log.With(slog.String("component", "backup_service")),
	}, nil
}

// Export snapshots the history, stamped with now in RFC 3339.
func (s *BackupService) Export(now time.Time) Backup {
	return Backup{
		Version:    BackupVersion,
		ExportDate: now.UTC().Format(time.RFC3339),
		Readings:   s.history.List(),
	}
}

// Import replaces the whole history with the backup's readings. A backup of
// another version, or one holding an invalid reading or a duplicate id, is
// rejected and the history is left untouched.
func (s *BackupService) Import(ctx context.Context, backup Backup) error {
	if backup.Version != BackupVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedBackupVersion, backup.Version)
	}

	readings := backup.Readings
	if readings == nil {
		readings = []domain.ReadingSession{}
	}
	if err := s.history.ReplaceAll(ctx, readings); err != nil {
		return wrapError("backup", "import", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("history restored from backup",
		slog.Int("readings", len(readings)),
		slog.String("export_date", backup.ExportDate))
	return nil
}
