package mem0

import (
	"context"
	"strings"
	"time"

	"github.com/sandevgo/roombot/internal/core"
	"github.com/sandevgo/roombot/pkg/log"
	"github.com/sandevgo/roombot/pkg/retry"
)

// searchLimit is the top-K of the ranked search.
const searchLimit = 5

// Store adapts the mem0 client to the ContextStore contract. All
// failures degrade to neutral results; the router never sees them.
type Store struct {
	client *Client
}

func NewStore(client *Client) *Store {
	return &Store{client: client}
}

func (s *Store) Backend() string {
	return core.BackendMem0
}

// GetContext returns the top search hits as "- <memory>" lines, or ""
// when nothing matches or the service is down.
func (s *Store) GetContext(ctx context.Context, username, query string) string {
	items, err := s.client.Search(ctx, query, username, searchLimit)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user", username).Msg("mem0 search failed")
		return ""
	}
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		if text := item.Text(); text != "" {
			lines = append(lines, "- "+text)
		}
	}
	return strings.Join(lines, "\n")
}

// SaveConversation pushes the exchange to mem0 with a couple of quick
// retries, then gives up quietly. The service does not expose an
// eviction control, so no retention cap applies here.
func (s *Store) SaveConversation(ctx context.Context, username, userMessage, aiResponse, roomID string) {
	messages := []ChatMessage{
		{Role: "user", Content: userMessage},
		{Role: "assistant", Content: aiResponse},
	}
	metadata := map[string]any{
		"room_id":   roomID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	err := retry.Do(ctx, retry.Quick(), func() error {
		return s.client.Add(ctx, messages, username, metadata)
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user", username).Msg("failed to save conversation to mem0")
	}
}

// UserStats is degraded on this backend: mem0 has no list-all operation
// in this design, so only the backend kind and username are reported.
func (s *Store) UserStats(ctx context.Context, username string) core.UserStats {
	return core.UserStats{
		Backend:  core.BackendMem0,
		Username: username,
	}
}
