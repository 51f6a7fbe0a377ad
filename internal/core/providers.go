package core

import "context"

// Responder produces one reply for one message. Implementations fail
// soft: an unreachable backend yields a fixed apology string, not an
// error the router has to translate.
type Responder interface {
	Generate(ctx context.Context, message, contextText, username string) (string, error)
}

// Handler receives room events from a Channel. Implementations must not
// block the delivery goroutine; slow work is dispatched per message.
type Handler interface {
	HandleData(ctx context.Context, payload []byte, sender string)
	HandleParticipantJoined(ctx context.Context, identity string)
	HandleParticipantLeft(ctx context.Context, identity string)
}

// Channel is the room transport boundary: it delivers raw inbound
// payloads to a Handler and broadcasts raw outbound payloads. The
// payload format is opaque to the channel.
type Channel interface {
	Connect(ctx context.Context, h Handler) error
	Broadcast(ctx context.Context, payload []byte, reliable bool) error
	Close() error
}
