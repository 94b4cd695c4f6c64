package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"mindcare/internal/domain"
)

func newExportService(store *fakeStore) *ExportService {
	return NewExportService(zap.NewNop(), &fakeSessionRepo{store: store}, &fakeMessageRepo{store: store})
}

func seedTranscript(store *fakeStore) {
	seedSession(store, "s1", "u1")
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	store.messages["s1"] = []domain.Message{
		{ID: "m1", SessionID: "s1", Role: domain.RoleUser, Content: "hola", Language: "es", RiskLevel: domain.RiskNone, CreatedAt: base},
		{ID: "m2", SessionID: "s1", Role: domain.RoleAssistant, Content: "hola, como estas?", Language: "es", RiskLevel: domain.RiskNone, CreatedAt: base.Add(time.Minute)},
		{ID: "m3", SessionID: "s1", Role: domain.RoleUser, Content: "muy mal, necesito ayuda", Language: "es", RiskLevel: domain.RiskHigh, CreatedAt: base.Add(2 * time.Minute)},
	}
}

func TestExportCSV_FourLinesWithHighRow(t *testing.T) {
	store := newFakeStore()
	seedTranscript(store)
	svc := newExportService(store)

	result, err := svc.Export(context.Background(), "s1", "u1", domain.ExportCSV)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(result.Data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header + 3 rows), got %d: %q", len(lines), lines)
	}
	if lines[0] != "timestamp,role,content,riskLevel,language" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[3], "HIGH") {
		t.Fatalf("expected HIGH in third data row, got %q", lines[3])
	}
	if result.ContentType != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", result.ContentType)
	}
	if result.Filename != "session-s1.csv" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
}

func TestExport_DeterministicBytes(t *testing.T) {
	store := newFakeStore()
	seedTranscript(store)
	svc := newExportService(store)

	for _, format := range []domain.ExportFormat{domain.ExportJSON, domain.ExportTXT, domain.ExportCSV} {
		first, err := svc.Export(context.Background(), "s1", "u1", format)
		if err != nil {
			t.Fatalf("export %s: %v", format, err)
		}
		second, err := svc.Export(context.Background(), "s1", "u1", format)
		if err != nil {
			t.Fatalf("export %s again: %v", format, err)
		}
		if !bytes.Equal(first.Data, second.Data) {
			t.Fatalf("expected byte-identical %s output", format)
		}
	}
}

func TestExportJSON_Structure(t *testing.T) {
	store := newFakeStore()
	seedTranscript(store)
	svc := newExportService(store)

	result, err := svc.Export(context.Background(), "s1", "u1", domain.ExportJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var doc struct {
		Session  domain.Session   `json:"session"`
		Messages []domain.Message `json:"messages"`
	}
	if err := json.Unmarshal(result.Data, &doc); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if doc.Session.ID != "s1" {
		t.Fatalf("unexpected session id %q", doc.Session.ID)
	}
	if len(doc.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(doc.Messages))
	}
	if doc.Messages[2].RiskLevel != domain.RiskHigh {
		t.Fatalf("expected last message HIGH, got %s", doc.Messages[2].RiskLevel)
	}
}

func TestExportTXT_Format(t *testing.T) {
	store := newFakeStore()
	seedTranscript(store)
	svc := newExportService(store)

	result, err := svc.Export(context.Background(), "s1", "u1", domain.ExportTXT)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	text := string(result.Data)
	if !strings.HasPrefix(text, "Session: s1\n") {
		t.Fatalf("expected session header, got %q", text)
	}
	if !strings.Contains(text, "[2026-03-14T10:00:00Z] user: hola\n") {
		t.Fatalf("expected formatted message line, got %q", text)
	}
}

func TestExport_Authorization(t *testing.T) {
	store := newFakeStore()
	seedTranscript(store)
	svc := newExportService(store)

	if _, err := svc.Export(context.Background(), "s1", "intruder", domain.ExportJSON); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Export(context.Background(), "missing", "u1", domain.ExportJSON); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// cleanupDuringListRepo simula una corrida de retencion que commitea entre
// la lectura de la sesion y la de los mensajes.
type cleanupDuringListRepo struct {
	store *fakeStore
}

func (r *cleanupDuringListRepo) CreateWithTouch(ctx context.Context, message domain.Message) error {
	return (&fakeMessageRepo{store: r.store}).CreateWithTouch(ctx, message)
}

func (r *cleanupDuringListRepo) ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error) {
	r.store.mu.Lock()
	delete(r.store.sessions, sessionID)
	delete(r.store.messages, sessionID)
	r.store.mu.Unlock()
	return (&fakeMessageRepo{store: r.store}).ListBySessionID(ctx, sessionID)
}

func TestExport_NotFoundWhenCleanupWinsRace(t *testing.T) {
	store := newFakeStore()
	seedTranscript(store)
	svc := NewExportService(zap.NewNop(), &fakeSessionRepo{store: store}, &cleanupDuringListRepo{store: store})

	if _, err := svc.Export(context.Background(), "s1", "u1", domain.ExportCSV); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when session deleted mid-export, got %v", err)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	store := newFakeStore()
	seedTranscript(store)
	svc := newExportService(store)

	if _, err := svc.Export(context.Background(), "s1", "u1", domain.ExportFormat("xml")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseExportFormat(t *testing.T) {
	if f, err := domain.ParseExportFormat(""); err != nil || f != domain.ExportJSON {
		t.Fatalf("expected default json, got %v %v", f, err)
	}
	if f, err := domain.ParseExportFormat(" CSV "); err != nil || f != domain.ExportCSV {
		t.Fatalf("expected csv, got %v %v", f, err)
	}
	if _, err := domain.ParseExportFormat("pdf"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
