package core

import "time"

const (
	BotUserAgent = "RoomBot/0.1"
	BotVersion   = "0.1.0"

	// DefaultMessage substitutes for a trigger-only message ("@agent"
	// with nothing else) so the responder still has something to answer.
	DefaultMessage = "Hello"
)

// Message type strings on the chat wire. Anything that is not "ai" is
// treated as human traffic.
const (
	MessageTypeAI    = "ai"
	MessageTypeHuman = "human"
)

// InboundMessage is a decoded chat payload. It lives only for the
// duration of one routing decision.
type InboundMessage struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
	Type   string `json:"type"`
}

// OutboundMessage is what the bot broadcasts back to the room. Timestamp
// is milliseconds since epoch, matching the web client.
type OutboundMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Sender    string `json:"sender"`
	Type      string `json:"type"`
}

// ConversationRecord is one completed exchange. Immutable once written.
type ConversationRecord struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
	RoomID      string    `json:"room_id"`
}

// UserStats is a derived, read-only view over a user's history. The
// remote backend cannot fill the count/seen fields; it reports only the
// backend kind and username.
type UserStats struct {
	Backend            string     `json:"backend"`
	Username           string     `json:"username"`
	TotalConversations int        `json:"total_conversations"`
	FirstSeen          *time.Time `json:"first_seen,omitempty"`
	LastSeen           *time.Time `json:"last_seen,omitempty"`
	Err                string     `json:"error,omitempty"`
}
