package core

import "context"

// Backend kinds reported by UserStats and Backend().
const (
	BackendMem0 = "mem0"
	BackendFile = "file"
)

// ContextStore is the per-user conversation memory. Implementations never
// propagate I/O errors to callers: retrieval failures yield an empty
// string, save failures are logged and swallowed, stats failures come
// back as an error-marked UserStats. The backend is chosen once at
// startup and never changes for the process lifetime.
type ContextStore interface {
	// GetContext returns a human-readable block of prior exchanges
	// relevant to query, or "" when the user is unknown or retrieval
	// fails. Relevance is backend-defined: semantic search for the
	// remote backend, plain recency for the file backend.
	GetContext(ctx context.Context, username, query string) string

	// SaveConversation durably appends one exchange. Best effort.
	SaveConversation(ctx context.Context, username, userMessage, aiResponse, roomID string)

	// UserStats computes a summary of the stored history. Never fails.
	UserStats(ctx context.Context, username string) UserStats

	// Backend identifies the active implementation.
	Backend() string
}
