package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/roombot/pkg/log"
)

type AppConfig struct {
	// Bot identity and addressing
	BotName string `env:"BOT_NAME" envDefault:"AI Assistant"`
	Trigger string `env:"BOT_TRIGGER" envDefault:"@agent"`

	// Characters of memory context injected into the prompt
	MaxContextLength int `env:"MAX_CONTEXT_LENGTH" envDefault:"4000"`

	MemoryPath string `env:"MEMORY_PATH"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if c.MemoryPath == "" {
		c.MemoryPath = filepath.Join(GetRuntimePath(), "memory_storage.json")
	}
	return c
}
