package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/roombot/pkg/log"
)

type RoomConfig struct {
	URL       string `env:"ROOM_URL,required,notEmpty"`
	APIKey    string `env:"ROOM_API_KEY,required,notEmpty"`
	APISecret string `env:"ROOM_API_SECRET,required,notEmpty"`
	RoomName  string `env:"ROOM_NAME" envDefault:"lobby"`
}

func NewRoomConfig(ctx context.Context) *RoomConfig {
	c := &RoomConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Room config")
	}
	return c
}
