package domain

import (
	"fmt"
	"strings"
)

// ExportFormat es el conjunto cerrado de formatos de descarga.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportTXT  ExportFormat = "txt"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat valida un formato; vacio usa el default json.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ExportJSON, nil
	case ExportJSON:
		return ExportJSON, nil
	case ExportTXT:
		return ExportTXT, nil
	case ExportCSV:
		return ExportCSV, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", ErrInvalidArgument, s)
}
