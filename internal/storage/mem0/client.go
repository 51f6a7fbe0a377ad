// Package mem0 talks to the mem0 managed memory service. It is the
// preferred ContextStore backend: retrieval is a ranked semantic search
// over everything the user has told the bot, not just the latest turns.
package mem0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/roombot/internal/core"
)

// ChatMessage mirrors the role/content pairs the mem0 add endpoint
// expects.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MemoryItem is one search hit. Depending on API version the text sits
// under "memory" or "content".
type MemoryItem struct {
	ID      string `json:"id"`
	Memory  string `json:"memory"`
	Content string `json:"content"`
}

// Text returns the item's memory text regardless of which field the
// server used.
func (m MemoryItem) Text() string {
	if m.Memory != "" {
		return m.Memory
	}
	return m.Content
}

type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("User-Agent", core.BotUserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	return resp, nil
}

// Ping verifies the endpoint is reachable and the credential is
// accepted. Used once, at backend selection time.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/ping/", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mem0 ping returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Search runs a ranked lookup over the user's stored memories.
func (c *Client) Search(ctx context.Context, query, userID string, limit int) ([]MemoryItem, error) {
	payload := map[string]any{
		"query":   query,
		"user_id": userID,
		"limit":   limit,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/memories/search/", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mem0 search returned status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	// v1 returns a bare array, v2 wraps it in {"results": [...]}
	var items []MemoryItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Results []MemoryItem `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return wrapped.Results, nil
}

// Add stores one exchange as a pair of role/content messages.
func (c *Client) Add(ctx context.Context, messages []ChatMessage, userID string, metadata map[string]any) error {
	payload := map[string]any{
		"messages": messages,
		"user_id":  userID,
		"metadata": metadata,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/memories/", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mem0 add returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
