package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ProfileClient registers a freshly persisted content record with the
// profile service. Best-effort; failures only get logged by the caller.
type ProfileClient struct {
	baseURL    string
	httpClient *http.Client
}

type createProfileRequest struct {
	ContentID string `json:"content_id"`
}

func NewProfileClient(baseURL string, timeout time.Duration) *ProfileClient {
	return &ProfileClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ProfileClient) CreateProfile(ctx context.Context, contentID string) error {
	payload, err := json.Marshal(createProfileRequest{ContentID: contentID})
	if err != nil {
		return fmt.Errorf("failed to encode profile request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/profiles", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("profile service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
