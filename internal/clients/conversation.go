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

// ConversationClient asks the conversation service to open a conversation
// seeded with the opening of a sampled chunk. Fire-and-forget: the
// pipeline never waits on the outcome.
type ConversationClient struct {
	baseURL    string
	httpClient *http.Client
}

type seedConversationRequest struct {
	UserID    string `json:"user_id"`
	ContentID string `json:"content_id"`
	ChunkID   string `json:"chunk_id"`
	SeedText  string `json:"seed_text"`
}

func NewConversationClient(baseURL string, timeout time.Duration) *ConversationClient {
	return &ConversationClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ConversationClient) SeedConversation(ctx context.Context, userID, contentID, chunkID, seedText string) error {
	payload, err := json.Marshal(seedConversationRequest{
		UserID:    userID,
		ContentID: contentID,
		ChunkID:   chunkID,
		SeedText:  seedText,
	})
	if err != nil {
		return fmt.Errorf("failed to encode conversation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/conversations", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create conversation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("conversation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("conversation service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
