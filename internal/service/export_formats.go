package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"mindcare/internal/domain"
)

// formatWriter es el punto de extension cerrado para formatos de export:
// agregar un formato es agregar un writer y un caso en writerFor.
type formatWriter interface {
	write(session domain.Session, messages []domain.Message) ([]byte, error)
	contentType() string
	extension() string
}

func writerFor(format domain.ExportFormat) (formatWriter, error) {
	switch format {
	case domain.ExportJSON:
		return jsonWriter{}, nil
	case domain.ExportTXT:
		return txtWriter{}, nil
	case domain.ExportCSV:
		return csvWriter{}, nil
	}
	return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidArgument, format)
}

type jsonWriter struct{}

func (jsonWriter) write(session domain.Session, messages []domain.Message) ([]byte, error) {
	if messages == nil {
		messages = []domain.Message{}
	}
	doc := struct {
		Session  domain.Session   `json:"session"`
		Messages []domain.Message `json:"messages"`
	}{
		Session:  session,
		Messages: messages,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (jsonWriter) contentType() string { return "application/json" }
func (jsonWriter) extension() string   { return "json" }

type txtWriter struct{}

func (txtWriter) write(session domain.Session, messages []domain.Message) ([]byte, error) {
	var buf bytes.Buffer

	title := session.Title
	if title == "" {
		title = session.ID
	}
	fmt.Fprintf(&buf, "Session: %s\n", title)
	fmt.Fprintf(&buf, "Language: %s\n", session.Language)
	fmt.Fprintf(&buf, "Created: %s\n\n", session.CreatedAt.UTC().Format(time.RFC3339))

	for _, msg := range messages {
		fmt.Fprintf(&buf, "[%s] %s: %s\n",
			msg.CreatedAt.UTC().Format(time.RFC3339),
			msg.Role,
			msg.Content,
		)
	}

	return buf.Bytes(), nil
}

func (txtWriter) contentType() string { return "text/plain; charset=utf-8" }
func (txtWriter) extension() string   { return "txt" }

type csvWriter struct{}

func (csvWriter) write(session domain.Session, messages []domain.Message) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"timestamp", "role", "content", "riskLevel", "language"}); err != nil {
		return nil, err
	}
	for _, msg := range messages {
		language := msg.Language
		if language == "" {
			language = session.Language
		}
		record := []string{
			msg.CreatedAt.UTC().Format(time.RFC3339),
			msg.Role,
			msg.Content,
			string(msg.RiskLevel),
			language,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (csvWriter) contentType() string { return "text/csv; charset=utf-8" }
func (csvWriter) extension() string   { return "csv" }
