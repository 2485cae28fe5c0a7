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
	"golang.org/x/time/rate"
)

// EmbeddingClient requests embedding creation for chunk text. The service
// accepts the work asynchronously and answers with a reference; the vector
// itself never travels back through this client.
type EmbeddingClient struct {
	baseURL     string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

type embeddingRequest struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	EmbeddingID string `json:"embedding_id"`
	Status      string `json:"status"`
}

// NewEmbeddingClient builds a client limited to rpm requests per minute,
// with a small burst so a batch of chunks does not serialize fully.
func NewEmbeddingClient(baseURL string, timeout time.Duration, rpm int) *EmbeddingClient {
	if rpm <= 0 {
		rpm = 60
	}
	return &EmbeddingClient{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		breaker:     newBreaker("EmbeddingService"),
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 5),
	}
}

// CreateEmbedding returns the reference assigned by the embedding service.
// Any error leaves the chunk without an embedding reference; the caller
// persists the chunk regardless.
func (c *EmbeddingClient) CreateEmbedding(ctx context.Context, text string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("embedding rate limiter: %w", err)
	}

	payload, err := json.Marshal(embeddingRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to encode embedding request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/embeddings", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
		}

		var out embeddingResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode embedding response: %w", err)
		}
		if out.EmbeddingID == "" {
			return nil, fmt.Errorf("embedding service returned no reference")
		}
		return out.EmbeddingID, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}
