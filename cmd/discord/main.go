// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"emperror.dev/errors"

	"github.com/keshon/warden/internal/config"
	"github.com/keshon/warden/internal/discord"
	"github.com/keshon/warden/internal/logging"
	"github.com/keshon/warden/internal/storage"
)

const appName = "warden"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, cfgErr := config.Load()

	opts := logging.Options{File: config.DefaultLogFile}
	if cfgErr == nil {
		opts = logging.Options{File: cfg.LogFile, Level: cfg.LogLevel}
	}
	closer, err := logging.Setup(opts)
	if err != nil {
		os.Stderr.WriteString("logging setup: " + err.Error() + "\n")
		return 1
	}
	defer closer.Close()

	log := logging.Named("bot")
	switch {
	case errors.Is(cfgErr, config.ErrMissingToken):
		log.Error().Msg("No Discord token found in environment variables")
		return 1
	case cfgErr != nil:
		log.Error().Err(cfgErr).Msg("Invalid configuration")
		return 1
	}

	log.Info().Msgf("Starting %s bot...", appName)

	if err := cfg.ApplyFFmpegPath(); err != nil {
		log.Error().Err(err).Msg("Invalid ffmpeg path")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open storage")
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	bot, err := discord.New(cfg, store)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create bot")
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Msgf("Received signal %s, shutting down...", s)
		cancel()
		err = <-errCh
	case err = <-errCh:
		cancel()
	}

	if err != nil {
		log.Error().Err(err).Msg("Discord bot error")
		return 1
	}
	log.Info().Msg("Discord bot exited cleanly")
	return 0
}
