package risk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"mindcare/internal/domain"
)

func TestHTTPClientClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req struct {
			Content  string `json:"content"`
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"risk_level": "high"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", nil)

	level, err := client.Classify(context.Background(), "necesito ayuda", "es")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if level != domain.RiskHigh {
		t.Fatalf("expected HIGH, got %s", level)
	}
}

func TestHTTPClientClassify_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", zap.NewNop())

	if _, err := client.Classify(context.Background(), "hola", "es"); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

func TestHTTPClientClassify_UnknownLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"risk_level": "critical"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", nil)

	if _, err := client.Classify(context.Background(), "hola", "es"); err == nil {
		t.Fatalf("expected error on unknown risk level")
	}
}
