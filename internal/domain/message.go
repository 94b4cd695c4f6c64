package domain

import (
	"fmt"
	"strings"
	"time"
)

// RiskLevel clasifica la senal de riesgo de un mensaje.
type RiskLevel string

const (
	RiskNone   RiskLevel = "NONE"
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevels lista los niveles en orden ascendente de severidad.
var RiskLevels = []RiskLevel{RiskNone, RiskLow, RiskMedium, RiskHigh}

// ParseRiskLevel normaliza y valida un nivel de riesgo textual.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case RiskNone:
		return RiskNone, nil
	case RiskLow:
		return RiskLow, nil
	case RiskMedium:
		return RiskMedium, nil
	case RiskHigh:
		return RiskHigh, nil
	}
	return "", fmt.Errorf("%w: unknown risk level %q", ErrInvalidArgument, s)
}

// Message es un turno inmutable dentro de una sesion.
type Message struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Language  string            `json:"language,omitempty"`
	RiskLevel RiskLevel         `json:"risk_level"`
	Context   map[string]string `json:"context,omitempty"`
	AudioURL  string            `json:"audio_url,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
