package risk

import (
	"context"
	"strings"

	"mindcare/internal/domain"
)

// KeywordClassifier es el fallback local cuando la API externa no esta
// configurada: busca frases por nivel, quedandose con el mas severo.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var (
	highPhrases = []string{
		"suicide", "kill myself", "end my life", "hurt myself",
		"self harm", "self-harm", "no quiero vivir", "quitarme la vida",
		"hacerme dano",
	}
	mediumPhrases = []string{
		"hopeless", "can't go on", "panic attack", "no puedo mas",
		"ataque de panico", "sin esperanza",
	}
	lowPhrases = []string{
		"anxious", "depressed", "can't sleep", "ansiedad",
		"deprimido", "deprimida", "no puedo dormir",
	}
)

func (k *KeywordClassifier) Classify(_ context.Context, content, _ string) (domain.RiskLevel, error) {
	text := strings.ToLower(content)

	for _, p := range highPhrases {
		if strings.Contains(text, p) {
			return domain.RiskHigh, nil
		}
	}
	for _, p := range mediumPhrases {
		if strings.Contains(text, p) {
			return domain.RiskMedium, nil
		}
	}
	for _, p := range lowPhrases {
		if strings.Contains(text, p) {
			return domain.RiskLow, nil
		}
	}

	return domain.RiskNone, nil
}
