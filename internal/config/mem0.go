package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/roombot/pkg/log"
)

// Mem0Config is optional: an empty API key means the bot runs on the
// local file store.
type Mem0Config struct {
	APIKey  string `env:"MEM0_API_KEY"`
	BaseURL string `env:"MEM0_BASE_URL" envDefault:"https://api.mem0.ai"`
}

func NewMem0Config(ctx context.Context) *Mem0Config {
	c := &Mem0Config{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse mem0 config")
	}
	return c
}
