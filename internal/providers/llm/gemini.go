// Package llm adapts generative backends to the Responder contract.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/roombot/internal/config"
	"github.com/sandevgo/roombot/pkg/log"
	"google.golang.org/genai"
)

const systemPrompt = `You are a helpful AI assistant in a group chat.
You have access to conversation history and user context from previous interactions.

Key guidelines:
- Be conversational and friendly
- Reference past conversations when relevant
- Keep responses concise (1-3 sentences typically)
- If you remember something about the user, mention it naturally
- Be helpful but not overly verbose in group settings

Current conversation context will be provided below.`

// Fixed user-visible replies for the two soft-failure modes.
const (
	fallbackError = "I'm experiencing some technical difficulties. Please try again."
	fallbackEmpty = "I'm sorry, I couldn't generate a response right now."
)

// Gemini produces chat replies through the Gemini API. Reasoning is
// disabled to keep room replies low-latency.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg *config.GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate returns one reply for one message. It never returns an error
// to the router: backend failures become a fixed apology, a blank
// success becomes a fixed "couldn't generate" reply.
func (g *Gemini) Generate(ctx context.Context, message, contextText, username string) (string, error) {
	prompt := buildPrompt(message, contextText, username)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), generateConfig())
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("gemini generation failed")
		return fallbackError, nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		log.FromCtx(ctx).Warn().Msg("empty response from gemini")
		return fallbackEmpty, nil
	}
	return text, nil
}

// Ping verifies the credential and model with a minimal generation call.
// Used once at startup.
func (g *Gemini) Ping(ctx context.Context) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text("Hello, this is a test."), generateConfig())
	if err != nil {
		return fmt.Errorf("gemini connection test failed: %w", err)
	}
	if resp.Text() == "" {
		return fmt.Errorf("gemini connection test returned no text")
	}
	return nil
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		// Thinking budget zero: conversational speed over depth.
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(0)),
		},
	}
}

func buildPrompt(message, contextText, username string) string {
	parts := []string{systemPrompt}

	if contextText != "" {
		parts = append(parts, "\nPrevious conversation context:\n"+contextText)
	}

	if username != "" {
		parts = append(parts, fmt.Sprintf("\nCurrent message from %s: %s", username, message))
	} else {
		parts = append(parts, "\nCurrent message: "+message)
	}

	parts = append(parts, "\nPlease respond as the AI assistant:")
	return strings.Join(parts, "\n")
}
