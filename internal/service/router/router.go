// Package router decides whether an inbound room message is addressed
// to the bot and orchestrates memory, generation, persistence, and the
// outbound reply.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sandevgo/roombot/internal/config"
	"github.com/sandevgo/roombot/internal/core"
	"github.com/sandevgo/roombot/internal/service/memory"
	"github.com/sandevgo/roombot/pkg/log"
)

const apologyMessage = "Sorry, I encountered an error processing your message."

// Router is stateless across messages; everything durable lives in the
// ContextStore. It is also the room session service: Start connects the
// channel and idles until the surrounding context is cancelled.
type Router struct {
	cfg       *config.AppConfig
	roomID    string
	store     core.ContextStore
	assembler *memory.Assembler
	responder core.Responder
	channel   core.Channel
}

func New(
	cfg *config.AppConfig,
	roomID string,
	store core.ContextStore,
	assembler *memory.Assembler,
	responder core.Responder,
	channel core.Channel,
) *Router {
	return &Router{
		cfg:       cfg,
		roomID:    roomID,
		store:     store,
		assembler: assembler,
		responder: responder,
		channel:   channel,
	}
}

func (r *Router) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if err := r.channel.Connect(ctx, r); err != nil {
		return fmt.Errorf("failed to connect to room: %w", err)
	}

	r.sendChat(ctx, fmt.Sprintf("🤖 %s has joined the chat! Mention %s to talk to me.", r.cfg.BotName, r.cfg.Trigger))
	logger.Info().Str("room", r.roomID).Msg("connected to room")

	// Idle until session teardown. In-flight message tasks are
	// abandoned, not awaited.
	<-ctx.Done()
	logger.Info().Msg("room session ended")
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.channel.Close()
}

// HandleData dispatches each inbound payload as its own task so one slow
// generation never blocks delivery of the next message.
func (r *Router) HandleData(ctx context.Context, payload []byte, sender string) {
	go r.process(ctx, payload, sender)
}

// HandleParticipantJoined greets returning users. Best effort: a stats
// failure or an unknown user means silence, never an error.
func (r *Router) HandleParticipantJoined(ctx context.Context, identity string) {
	log.FromCtx(ctx).Info().Str("identity", identity).Msg("participant joined")
	go func() {
		stats := r.store.UserStats(ctx, identity)
		if stats.TotalConversations > 0 {
			r.sendChat(ctx, fmt.Sprintf("Welcome back, %s! 👋 I remember our previous conversations.", identity))
		}
	}()
}

func (r *Router) HandleParticipantLeft(ctx context.Context, identity string) {
	log.FromCtx(ctx).Info().Str("identity", identity).Msg("participant left")
}

// process runs the full pipeline for one message: decode, self-filter,
// trigger check, clean, contextualize, respond, persist, emit.
func (r *Router) process(ctx context.Context, payload []byte, sender string) {
	logger := log.FromCtx(ctx)

	// process runs in its own goroutine; a panic here must not take the
	// session down with it.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Msgf("message handler panicked: %v", rec)
		}
	}()

	var msg core.InboundMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Error().Err(err).Int("bytes", len(payload)).Msg("failed to decode message payload")
		return
	}

	username := sender
	if username == "" {
		username = msg.Sender
	}
	if username == "" {
		username = "unknown_user"
	}

	// Never answer our own broadcasts.
	if msg.Type == core.MessageTypeAI || msg.Sender == r.cfg.BotName {
		logger.Debug().Msg("ignoring message from the bot itself")
		return
	}

	if !strings.Contains(strings.ToLower(msg.Text), strings.ToLower(r.cfg.Trigger)) {
		// Normal room traffic, not an error.
		logger.Debug().Str("user", username).Msg("trigger not mentioned, ignoring")
		return
	}

	cleaned := strings.TrimSpace(removeFold(msg.Text, r.cfg.Trigger))
	if cleaned == "" {
		cleaned = core.DefaultMessage
	}

	logger.Info().Str("user", username).Str("message", cleaned).Msg("processing message")

	raw := r.store.GetContext(ctx, username, cleaned)
	contextText := r.assembler.Format(r.store.Backend(), username, raw)

	response, err := r.responder.Generate(ctx, cleaned, contextText, username)
	if err != nil {
		logger.Error().Err(err).Str("user", username).Msg("failed to generate response")
		r.sendChat(ctx, apologyMessage)
		return
	}

	r.store.SaveConversation(ctx, username, cleaned, response, r.roomID)

	r.sendChat(ctx, response)
	logger.Info().Str("user", username).Msg("sent response")
}

// sendChat broadcasts one bot message. Failures are logged; there is no
// channel to report them to beyond that.
func (r *Router) sendChat(ctx context.Context, text string) {
	out := core.OutboundMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		Sender:    r.cfg.BotName,
		Type:      core.MessageTypeAI,
	}

	payload, err := json.Marshal(out)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to marshal outbound message")
		return
	}

	if err := r.channel.Broadcast(ctx, payload, true); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to broadcast message")
	}
}

// removeFold removes every case-insensitive occurrence of token from s.
// Matching is done rune by rune on s itself: case folding can change a
// rune's UTF-8 byte length, so byte offsets into a lowered copy of s are
// not valid offsets into s.
func removeFold(s, token string) string {
	if token == "" {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); {
		if n, ok := foldPrefixLen(s[i:], token); ok {
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		sb.WriteString(s[i : i+size])
		i += size
	}
	return sb.String()
}

// foldPrefixLen reports whether s starts with a case-insensitive match of
// token, and the byte length of that match in s.
func foldPrefixLen(s, token string) (int, bool) {
	n := 0
	for _, tr := range token {
		sr, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || unicode.ToLower(sr) != unicode.ToLower(tr) {
			return 0, false
		}
		n += size
	}
	return n, true
}
