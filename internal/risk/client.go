package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mindcare/internal/domain"
)

// HTTPClient implementa Classifier contra la API externa de analisis
// de contenido.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente HTTP apuntando al endpoint de
// clasificacion.
func NewHTTPClient(baseURL, apiKey string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (c *HTTPClient) Classify(ctx context.Context, content, language string) (domain.RiskLevel, error) {
	reqBody := classifyRequest{
		Content:  content,
		Language: language,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.Warn("risk api error",
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(respBody)),
			)
		}
		return "", fmt.Errorf("risk api http error: status=%d", resp.StatusCode)
	}

	var cr classifyResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if cr.Error != nil {
		return "", fmt.Errorf("risk api error: %s", cr.Error.Message)
	}

	level, err := domain.ParseRiskLevel(cr.RiskLevel)
	if err != nil {
		return "", fmt.Errorf("risk api returned %q: %w", cr.RiskLevel, err)
	}

	return level, nil
}

type classifyRequest struct {
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

type classifyResponse struct {
	RiskLevel string `json:"risk_level"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
