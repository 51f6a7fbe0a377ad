// Package memfile is the fallback conversation store: a single JSON
// document on local disk. It is recency-only — GetContext ignores the
// query and returns the latest exchanges — which is intentional: the
// file store stands in for the semantic backend, it does not imitate it.
package memfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/roombot/internal/core"
	"github.com/sandevgo/roombot/pkg/log"
)

const (
	// maxConversations bounds the per-user history; oldest records are
	// evicted first on save.
	maxConversations = 50

	// recentContextSize is how many exchanges GetContext returns.
	recentContextSize = 3
)

type document struct {
	Users map[string]*userEntry `json:"users"`
}

type userEntry struct {
	Conversations []core.ConversationRecord `json:"conversations"`
}

// Store keeps all users in one JSON file with read-modify-write saves.
// The mutex makes concurrent saves lose nothing; it does not make them
// ordered.
type Store struct {
	path string
	mu   sync.Mutex

	// now is swappable for tests
	now func() time.Time
}

// New creates the backing file with an empty users map when it does not
// exist yet. The parent directory is created as needed.
func New(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat memory file: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create memory directory: %w", err)
		}
		if err := s.write(&document{Users: map[string]*userEntry{}}); err != nil {
			return nil, fmt.Errorf("failed to initialize memory file: %w", err)
		}
	}

	return s, nil
}

func (s *Store) Backend() string {
	return core.BackendFile
}

// GetContext returns the last few exchanges for username as plain
// "User: ... / AI: ..." lines, or "" when there is no history or the
// file cannot be read.
func (s *Store) GetContext(ctx context.Context, username, query string) string {
	_ = query // recency-only backend

	s.mu.Lock()
	doc, err := s.read()
	s.mu.Unlock()
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to read memory file")
		return ""
	}

	user, ok := doc.Users[username]
	if !ok || len(user.Conversations) == 0 {
		return ""
	}

	recent := user.Conversations
	if len(recent) > recentContextSize {
		recent = recent[len(recent)-recentContextSize:]
	}

	var sb strings.Builder
	for i, conv := range recent {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("User: " + conv.UserMessage + "\n")
		sb.WriteString("AI: " + conv.AIResponse)
	}
	return sb.String()
}

// SaveConversation appends one record and truncates the user's history
// to the retention cap. Failures are logged and swallowed: a broken
// disk must not break the conversation.
func (s *Store) SaveConversation(ctx context.Context, username, userMessage, aiResponse, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to read memory file for save")
		return
	}

	user, ok := doc.Users[username]
	if !ok {
		user = &userEntry{}
		doc.Users[username] = user
	}

	user.Conversations = append(user.Conversations, core.ConversationRecord{
		UserMessage: userMessage,
		AIResponse:  aiResponse,
		Timestamp:   s.now().UTC(),
		RoomID:      roomID,
	})

	if len(user.Conversations) > maxConversations {
		user.Conversations = user.Conversations[len(user.Conversations)-maxConversations:]
	}

	if err := s.write(doc); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user", username).Msg("failed to persist conversation")
	}
}

// UserStats derives counts and first/last seen from the full history.
func (s *Store) UserStats(ctx context.Context, username string) core.UserStats {
	stats := core.UserStats{Backend: core.BackendFile, Username: username}

	s.mu.Lock()
	doc, err := s.read()
	s.mu.Unlock()
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to read memory file for stats")
		stats.Err = err.Error()
		return stats
	}

	user, ok := doc.Users[username]
	if !ok || len(user.Conversations) == 0 {
		return stats
	}

	stats.TotalConversations = len(user.Conversations)
	first := user.Conversations[0].Timestamp
	last := user.Conversations[len(user.Conversations)-1].Timestamp
	stats.FirstSeen = &first
	stats.LastSeen = &last
	return stats
}

func (s *Store) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if doc.Users == nil {
		doc.Users = map[string]*userEntry{}
	}
	return doc, nil
}

func (s *Store) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
