package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/roombot/internal/config"
	"github.com/sandevgo/roombot/internal/providers/llm"
	"github.com/sandevgo/roombot/internal/service/memory"
	"github.com/sandevgo/roombot/internal/service/router"
	"github.com/sandevgo/roombot/internal/transport/room"
	"github.com/sandevgo/roombot/pkg/log"
	"github.com/sandevgo/roombot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration. Missing required credentials are fatal here,
	// before anything connects.
	appCfg := config.NewAppConfig(ctx)
	roomCfg := config.NewRoomConfig(ctx)
	geminiCfg := config.NewGeminiConfig(ctx)
	mem0Cfg := config.NewMem0Config(ctx)

	// 2. Context store: mem0 when configured and reachable, local JSON
	// file otherwise.
	store, err := memory.Select(ctx, mem0Cfg, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize memory store")
	}
	logger.Info().Str("backend", store.Backend()).Msg("memory store ready")

	// 3. Responder, probed once so a dead credential fails at startup
	// instead of on the first chat message.
	responder, err := llm.NewGemini(ctx, geminiCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gemini")
	}
	if err := responder.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("gemini connection test failed")
	}
	logger.Info().Str("model", geminiCfg.Model).Msg("gemini ready")

	// 4. Room transport and the router on top of it.
	channel := room.NewChannel(roomCfg, appCfg.BotName)
	assembler := memory.NewAssembler(appCfg.MaxContextLength)
	rt := router.New(appCfg, roomCfg.RoomName, store, assembler, responder, channel)

	return []srv.Service{rt}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
