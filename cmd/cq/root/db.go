package root

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"coinquest/internal/config"
	"coinquest/internal/engine"
	"coinquest/internal/store"
)

func openStore(ctx context.Context) (*store.Store, config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	kv, err := store.Open(ctx, cfg.StorePath)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	cleanup := func() {
		_ = kv.Close()
	}
	return kv, cfg, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	kv, cfg, cleanup, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	level := zerolog.ErrorLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	return engine.NewService(kv, log), cleanup, nil
}
