package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"mindcare/internal/domain"
	"mindcare/internal/repository"
)

// ExportService renderiza transcripciones en los formatos de descarga.
type ExportService struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
	messages repository.MessageRepository
}

var ErrExportServiceNotConfigured = errors.New("export service not configured")

// ExportResult es el payload listo para descarga.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

func NewExportService(logger *zap.Logger, sessions repository.SessionRepository, messages repository.MessageRepository) *ExportService {
	return &ExportService{
		logger:   logger,
		sessions: sessions,
		messages: messages,
	}
}

// Export autoriza al owner y despacha al writer del formato pedido.
// La salida es deterministica: el mismo estado de sesion produce bytes
// identicos para el mismo formato.
func (s *ExportService) Export(ctx context.Context, sessionID, ownerID string, format domain.ExportFormat) (ExportResult, error) {
	if s == nil || s.sessions == nil || s.messages == nil {
		return ExportResult{}, ErrExportServiceNotConfigured
	}

	sessionID = strings.TrimSpace(sessionID)
	ownerID = strings.TrimSpace(ownerID)
	if sessionID == "" || ownerID == "" {
		return ExportResult{}, fmt.Errorf("%w: session and owner ids are required", domain.ErrInvalidArgument)
	}

	writer, err := writerFor(format)
	if err != nil {
		return ExportResult{}, err
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ExportResult{}, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
		}
		return ExportResult{}, fmt.Errorf("%w: lookup session: %v", domain.ErrStoreFailure, err)
	}
	if session.OwnerID != ownerID {
		return ExportResult{}, fmt.Errorf("%w: session %s", domain.ErrForbidden, sessionID)
	}

	messages, err := s.messages.ListBySessionID(ctx, sessionID)
	if err != nil {
		return ExportResult{}, fmt.Errorf("%w: list messages: %v", domain.ErrStoreFailure, err)
	}

	// Una corrida de retencion puede borrar la sesion entre ambas lecturas.
	// Se re-verifica la existencia para no entregar una transcripcion parcial.
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ExportResult{}, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
		}
		return ExportResult{}, fmt.Errorf("%w: recheck session: %v", domain.ErrStoreFailure, err)
	}

	data, err := writer.write(session, messages)
	if err != nil {
		return ExportResult{}, fmt.Errorf("render %s export: %w", format, err)
	}

	return ExportResult{
		Data:        data,
		ContentType: writer.contentType(),
		Filename:    fmt.Sprintf("session-%s.%s", session.ID, writer.extension()),
	}, nil
}
