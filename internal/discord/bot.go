package discord

import (
	"context"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/warden/internal/command"
	"github.com/keshon/warden/internal/config"
	"github.com/keshon/warden/internal/logging"
	"github.com/keshon/warden/internal/moderation"
	"github.com/keshon/warden/internal/music"
	"github.com/keshon/warden/internal/music/media"
	"github.com/keshon/warden/internal/music/voice"
	"github.com/keshon/warden/internal/storage"
	"github.com/keshon/warden/pkg/jobmgr"
)

const shutdownTimeout = 10 * time.Second

// Bot is a Discord bot
type Bot struct {
	dg        *discordgo.Session
	router    *command.Router
	music     *music.Module
	cooldowns *command.Cooldowns
	dir       *directory
	log       zerolog.Logger

	mu  sync.RWMutex
	ctx context.Context
}

// New builds the session and every command module. Nothing connects until Run.
func New(cfg *config.Config, store *storage.Storage) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	log := logging.Named("bot")
	cooldowns := command.NewCooldowns()
	dir := &directory{dg: dg}

	router := command.NewRouter(cfg.CommandPrefix, log,
		command.WithGuildOnly(),
		command.WithPermission(),
		command.WithCooldown(cooldowns),
		command.WithCommandLog(store, log),
	)

	mod := moderation.New(&moderator{dg: dg}, dir, store, log)

	musicLog := logging.Named("bot.music")
	jobs := jobmgr.NewManager(func(msg string) {
		musicLog.Debug().Str("job", msg).Msg("job status")
	})
	resolver := media.Chain{
		media.NewYTDLP(cfg.YTDLPPath),
		media.NewYouTube(),
	}
	sessions := voice.NewStore(&audioOutput{dg: dg, log: musicLog}, musicLog)
	mus := music.New(sessions, &locator{dg: dg}, resolver, jobs, log)

	router.Register(mod.Routes()...)
	router.Register(mus.Routes()...)
	router.Register(command.HelpRoute(router), command.HistoryRoute(router, store))

	return &Bot{
		dg:        dg,
		router:    router,
		music:     mus,
		cooldowns: cooldowns,
		dir:       dir,
		log:       log,
		ctx:       context.Background(),
	}, nil
}

// Run connects to the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	b.configureIntents()
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onVoiceStateUpdate)

	if err := b.dg.Open(); err != nil {
		return errors.Wrap(err, "failed to open Discord session")
	}

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received. Cleaning up...")
	return b.shutdown()
}

func (b *Bot) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := b.music.Shutdown(ctx); err != nil {
		errs = append(errs, errors.WrapIf(err, "disconnect voice sessions"))
	}
	if err := b.cooldowns.Close(); err != nil {
		errs = append(errs, errors.WrapIf(err, "close cooldowns"))
	}
	if err := b.dg.Close(); err != nil {
		errs = append(errs, errors.WrapIf(err, "close session"))
	}
	return errors.Combine(errs...)
}

// configureIntents asks only for what the commands read: guild and member
// state for permissions and ranks, voice states for join, message content
// for prefix commands.
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
	b.dg.State.TrackVoice = true
	b.dg.State.TrackMembers = true
	b.dg.State.TrackRoles = true
}

func (b *Bot) runContext() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}
