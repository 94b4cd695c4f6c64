package risk

import (
	"context"

	"mindcare/internal/domain"
)

// MockClassifier permite tests sin llamar a la API real.
type MockClassifier struct {
	Level domain.RiskLevel
	Err   error
}

func (m *MockClassifier) Classify(ctx context.Context, content, language string) (domain.RiskLevel, error) {
	return m.Level, m.Err
}
