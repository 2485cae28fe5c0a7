// Package clients holds the narrow HTTP clients for the services the
// ingestion pipeline collaborates with. Each client implements exactly one
// contract; retry and fallback policy live with the callers.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"content-ingestion-service/internal/logger"
)

// MetadataClient asks the metadata service to derive document metadata
// from a text prefix. Calls run through a circuit breaker so a dead
// metadata service fails fast instead of stalling every upload.
type MetadataClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type metadataRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Hint     string `json:"hint,omitempty"`
}

func NewMetadataClient(baseURL string, timeout time.Duration) *MetadataClient {
	return &MetadataClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("MetadataService"),
	}
}

// ExtractMetadata returns the raw metadata object the service produced.
// Callers are expected to validate it; any error here means "no metadata",
// never a failed ingestion.
func (c *MetadataClient) ExtractMetadata(ctx context.Context, textPrefix, filename, hint string) (map[string]any, error) {
	payload, err := json.Marshal(metadataRequest{Text: textPrefix, Filename: filename, Hint: hint})
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/metadata/extract", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create metadata request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("metadata request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("metadata service returned status %d: %s", resp.StatusCode, string(body))
		}

		var raw map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode metadata response: %w", err)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(map[string]any), nil
}

// newBreaker builds the circuit breaker shared by the best-effort
// collaborator clients. It trips after a 60% failure ratio and recovers
// through a half-open probe window.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
