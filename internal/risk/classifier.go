package risk

import (
	"context"

	"mindcare/internal/domain"
)

// Classifier define la interfaz para clasificar riesgo de un mensaje.
// Es una funcion pura de (contenido, idioma) a nivel; no muta estado.
type Classifier interface {
	Classify(ctx context.Context, content, language string) (domain.RiskLevel, error)
}
