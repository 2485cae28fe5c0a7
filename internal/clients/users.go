package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// UserClient resolves a user id to the email address notifications go to.
type UserClient struct {
	baseURL    string
	httpClient *http.Client
}

type userResponse struct {
	Email string `json:"email"`
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *UserClient) ResolveEmail(ctx context.Context, userID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/users/"+userID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create user lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var out userResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode user response: %w", err)
	}
	if out.Email == "" {
		return "", fmt.Errorf("user %s has no email on record", userID)
	}
	return out.Email, nil
}
