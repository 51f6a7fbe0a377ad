// Package memory picks the conversation store backend and shapes its
// output for prompting.
package memory

import (
	"context"
	"fmt"

	"github.com/sandevgo/roombot/internal/config"
	"github.com/sandevgo/roombot/internal/core"
	"github.com/sandevgo/roombot/internal/storage/mem0"
	"github.com/sandevgo/roombot/internal/storage/memfile"
	"github.com/sandevgo/roombot/pkg/log"
)

// Select activates exactly one store for the process lifetime: mem0 when
// a credential is configured and the service answers the ping, the local
// JSON file otherwise. A dead mem0 is a warning, not an error — the
// fallback only fails when the local filesystem refuses the backing
// file.
func Select(ctx context.Context, mem0Cfg *config.Mem0Config, appCfg *config.AppConfig) (core.ContextStore, error) {
	logger := log.FromCtx(ctx)

	if mem0Cfg.APIKey != "" {
		client := mem0.NewClient(mem0Cfg.BaseURL, mem0Cfg.APIKey)
		if err := client.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("mem0 unreachable, falling back to file storage")
		} else {
			logger.Info().Msg("using mem0 for conversation memory")
			return mem0.NewStore(client), nil
		}
	}

	store, err := memfile.New(appCfg.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file memory store: %w", err)
	}
	logger.Info().Str("path", appCfg.MemoryPath).Msg("using JSON file storage for memory")
	return store, nil
}
