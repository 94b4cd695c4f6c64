package risk

import (
	"context"
	"testing"

	"mindcare/internal/domain"
)

func TestKeywordClassifier(t *testing.T) {
	classifier := NewKeywordClassifier()

	cases := []struct {
		content string
		want    domain.RiskLevel
	}{
		{"today was a good day", domain.RiskNone},
		{"I feel anxious about work", domain.RiskLow},
		{"no puedo dormir hace dias", domain.RiskLow},
		{"everything feels hopeless", domain.RiskMedium},
		{"tuve un ataque de panico", domain.RiskMedium},
		{"I want to KILL MYSELF", domain.RiskHigh},
		{"ya no quiero vivir", domain.RiskHigh},
	}

	for _, c := range cases {
		got, err := classifier.Classify(context.Background(), c.content, "")
		if err != nil {
			t.Fatalf("classify %q: %v", c.content, err)
		}
		if got != c.want {
			t.Fatalf("classify %q: expected %s, got %s", c.content, c.want, got)
		}
	}
}

func TestKeywordClassifier_PicksMostSevere(t *testing.T) {
	classifier := NewKeywordClassifier()

	got, err := classifier.Classify(context.Background(), "I'm anxious and I want to hurt myself", "en")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got != domain.RiskHigh {
		t.Fatalf("expected HIGH to win over LOW, got %s", got)
	}
}
