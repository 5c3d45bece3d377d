// Package insights requests stock analysis text from an external
// generation service. The response is opaque: nothing in the ledger
// parses or acts on it.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TextClient generates free-form text for a prompt.
type TextClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPClient calls a text-generation HTTP endpoint.
type HTTPClient struct {
	Endpoint string
	APIKey   string
	Model    string
	Client   *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate posts the prompt and returns the text field of the reply.
func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.Model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("insights: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("insights: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	httpClient := c.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("insights: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insights: unexpected status %d", resp.StatusCode)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("insights: decode response: %w", err)
	}
	return out.Text, nil
}
