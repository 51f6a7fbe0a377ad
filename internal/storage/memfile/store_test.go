package memfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory_storage.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew_CreatesEmptyDocument(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "memory_storage.json")

	if _, err := New(path); err != nil {
		t.Fatalf("New failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("backing file not created: %v", err)
	}

	var doc struct {
		Users map[string]json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("backing file is not valid JSON: %v", err)
	}
	if doc.Users == nil {
		t.Fatal("expected users map in new document")
	}
	if len(doc.Users) != 0 {
		t.Errorf("expected empty users map, got %d entries", len(doc.Users))
	}
}

func TestGetContext_UnknownUser(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if got := s.GetContext(context.Background(), "nobody", "anything"); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestGetContext_ReturnsMostRecentThree(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		s.SaveConversation(ctx, "alice", fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i), "room-1")
	}

	got := s.GetContext(ctx, "alice", "ignored query")

	for i := 3; i <= 5; i++ {
		if !strings.Contains(got, fmt.Sprintf("question %d", i)) {
			t.Errorf("context missing question %d:\n%s", i, got)
		}
		if !strings.Contains(got, fmt.Sprintf("answer %d", i)) {
			t.Errorf("context missing answer %d:\n%s", i, got)
		}
	}
	for i := 1; i <= 2; i++ {
		if strings.Contains(got, fmt.Sprintf("question %d", i)) {
			t.Errorf("context should not contain question %d:\n%s", i, got)
		}
	}

	// chronological order inside the block
	if strings.Index(got, "question 3") > strings.Index(got, "question 5") {
		t.Errorf("context not in chronological order:\n%s", got)
	}
}

func TestSaveConversation_RetentionCap(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 51; i++ {
		s.SaveConversation(ctx, "bob", fmt.Sprintf("msg %d", i), "ok", "room-1")
	}

	stats := s.UserStats(ctx, "bob")
	if stats.TotalConversations != 50 {
		t.Fatalf("TotalConversations = %d, want 50", stats.TotalConversations)
	}

	// oldest record evicted, newest retained
	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read backing file: %v", err)
	}
	if strings.Contains(string(data), `"msg 1"`) {
		t.Error("oldest record should have been evicted")
	}
	if !strings.Contains(string(data), `"msg 2"`) {
		t.Error("second record should have been retained")
	}
	if !strings.Contains(string(data), `"msg 51"`) {
		t.Error("newest record should have been retained")
	}
}

func TestUserStats_ReflectsSave(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	before := s.UserStats(ctx, "carol")
	if before.TotalConversations != 0 {
		t.Fatalf("expected zero conversations before save, got %d", before.TotalConversations)
	}

	s.SaveConversation(ctx, "carol", "hi", "hello", "room-1")

	after := s.UserStats(ctx, "carol")
	if after.TotalConversations != before.TotalConversations+1 {
		t.Errorf("TotalConversations = %d, want %d", after.TotalConversations, before.TotalConversations+1)
	}
	if after.LastSeen == nil || !after.LastSeen.Equal(fixed) {
		t.Errorf("LastSeen = %v, want %v", after.LastSeen, fixed)
	}
	if after.FirstSeen == nil || !after.FirstSeen.Equal(fixed) {
		t.Errorf("FirstSeen = %v, want %v", after.FirstSeen, fixed)
	}
	if after.Backend != "file" {
		t.Errorf("Backend = %q, want file", after.Backend)
	}
}

func TestUserStats_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveConversation(ctx, "dave", "hi", "hello", "room-1")

	first := s.UserStats(ctx, "dave")
	second := s.UserStats(ctx, "dave")

	if first.TotalConversations != second.TotalConversations {
		t.Errorf("counts differ: %d vs %d", first.TotalConversations, second.TotalConversations)
	}
	if !first.FirstSeen.Equal(*second.FirstSeen) || !first.LastSeen.Equal(*second.LastSeen) {
		t.Error("seen timestamps differ between idempotent calls")
	}
}

func TestGetContext_CorruptFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := os.WriteFile(s.path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if got := s.GetContext(ctx, "alice", "hi"); got != "" {
		t.Errorf("expected empty context for corrupt file, got %q", got)
	}

	stats := s.UserStats(ctx, "alice")
	if stats.Err == "" {
		t.Error("expected error-marked stats for corrupt file")
	}
	if stats.TotalConversations != 0 {
		t.Errorf("TotalConversations = %d, want 0", stats.TotalConversations)
	}
}

func TestSaveConversation_SeparateUsers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveConversation(ctx, "alice", "alice question", "alice answer", "room-1")
	s.SaveConversation(ctx, "bob", "bob question", "bob answer", "room-1")

	aliceCtx := s.GetContext(ctx, "alice", "")
	if !strings.Contains(aliceCtx, "alice question") || strings.Contains(aliceCtx, "bob question") {
		t.Errorf("alice context leaked across users:\n%s", aliceCtx)
	}

	if s.UserStats(ctx, "alice").TotalConversations != 1 {
		t.Error("alice should have exactly one conversation")
	}
	if s.UserStats(ctx, "bob").TotalConversations != 1 {
		t.Error("bob should have exactly one conversation")
	}
}
