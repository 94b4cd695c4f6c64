package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindcare/internal/domain"
	"mindcare/internal/service"
)

// HistoryHandler mantiene dependencias para export, estadisticas y retencion.
type HistoryHandler struct {
	logger      *zap.Logger
	exportServ  *service.ExportService
	statsServ   *service.StatsService
	cleanupServ *service.CleanupService
}

// NewHistoryHandler crea una instancia de HistoryHandler con dependencias necesarias.
func NewHistoryHandler(
	logger *zap.Logger,
	exportServ *service.ExportService,
	statsServ *service.StatsService,
	cleanupServ *service.CleanupService,
) *HistoryHandler {
	return &HistoryHandler{
		logger:      logger,
		exportServ:  exportServ,
		statsServ:   statsServ,
		cleanupServ: cleanupServ,
	}
}

// ExportSession maneja GET /sessions/:id/export?format=json|txt|csv.
func (h *HistoryHandler) ExportSession(c *gin.Context) {
	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export format"})
		return
	}

	result, err := h.exportServ.Export(c.Request.Context(), c.Param("id"), ownerID(c), format)
	if err != nil {
		h.logger.Error("export session failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not export session"})
		return
	}

	// El middleware global ya dejo application/json en el header; un Set
	// explicito lo pisa con el content type del formato exportado.
	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// GetStatistics maneja GET /stats.
func (h *HistoryHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statsServ.GetStatistics(c.Request.Context(), ownerID(c))
	if err != nil {
		h.logger.Error("get statistics failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not compute statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

// CleanupSessions maneja POST /admin/cleanup.
func (h *HistoryHandler) CleanupSessions(c *gin.Context) {
	var req struct {
		DaysToKeep int `json:"days_to_keep" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cleanup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	deleted, err := h.cleanupServ.CleanupOldSessions(c.Request.Context(), ownerID(c), req.DaysToKeep)
	if err != nil {
		h.logger.Error("cleanup failed", zap.Error(err))
		c.JSON(statusForError(err), gin.H{"error": "could not cleanup sessions", "deleted": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
