package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tarots-ai/tarots-api/internal/api/shared"
	"github.com/tarots-ai/tarots-api/internal/platform/logger"
	"github.com/tarots-ai/tarots-api/internal/service"
)

// BackupHandler exports and restores the reading history.
type BackupHandler struct {
	backup *service.BackupService
	logger *slog.Logger
	now    func() time.Time
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backup *service.BackupService, logger *slog.Logger) *BackupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupHandler{
		backup: backup,
		logger: logger.With(slog.String("component", "backup_handler")),
		now:    time.Now,
	}
}

// Export handles GET /api/backup. The envelope is served as an attachment.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="tarots-backup-%s.json"`, now.UTC().Format("20060102")))
	shared.RespondWithJSON(w, r, http.StatusOK, h.backup.Export(now))
}

// Import handles POST /api/backup. The saved history is replaced wholesale.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var backup service.Backup
	if !decodeAndValidate(w, r, &backup) {
		return
	}
	if err := h.backup.Import(r.Context(), backup); err != nil {
		HandleAPIError(w, r, err, "Failed to import backup")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("backup imported",
		slog.Int("readings", len(backup.Readings)))
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"imported": len(backup.Readings)})
}
