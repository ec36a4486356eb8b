package discord

import (
	"context"
	"io"
	"sync"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/jonas747/dca"
	"github.com/rs/zerolog"

	"github.com/keshon/warden/internal/music/voice"
)

// audioOutput opens voice connections that stream through ffmpeg via dca.
type audioOutput struct {
	dg  *discordgo.Session
	log zerolog.Logger
}

func (o *audioOutput) Connect(ctx context.Context, guildID, channelID string) (voice.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vc, err := o.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to join voice channel")
	}
	return &dcaConn{vc: vc, channelID: channelID, log: o.log}, nil
}

func encodeOptions() *dca.EncodeOptions {
	opts := *dca.StdEncodeOptions
	opts.RawOutput = true
	opts.Bitrate = 96
	opts.Application = dca.AudioApplicationLowDelay
	return &opts
}

type dcaConn struct {
	mu        sync.Mutex
	vc        *discordgo.VoiceConnection
	channelID string
	enc       *dca.EncodeSession
	log       zerolog.Logger
}

func (c *dcaConn) ChannelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

func (c *dcaConn) Move(_ context.Context, channelID string) error {
	if err := c.vc.ChangeChannel(channelID, false, true); err != nil {
		return errors.Wrap(err, "failed to change voice channel")
	}
	c.mu.Lock()
	c.channelID = channelID
	c.mu.Unlock()
	return nil
}

func (c *dcaConn) Play(streamURL string, onDone func(error)) error {
	enc, err := dca.EncodeFile(streamURL, encodeOptions())
	if err != nil {
		return errors.Wrap(err, "failed to start encoder")
	}

	c.mu.Lock()
	c.enc = enc
	c.mu.Unlock()

	if err := c.vc.Speaking(true); err != nil {
		c.log.Warn().Err(err).Msg("Failed to set speaking state")
	}

	done := make(chan error, 1)
	dca.NewStream(enc, c.vc, done)

	go func() {
		err := <-done
		enc.Cleanup()

		c.mu.Lock()
		current := c.enc == enc
		if current {
			c.enc = nil
		}
		c.mu.Unlock()
		if current {
			_ = c.vc.Speaking(false)
		}

		if errors.Is(err, io.EOF) {
			err = nil
		}
		if onDone != nil {
			onDone(err)
		}
	}()
	return nil
}

func (c *dcaConn) Stop() {
	c.mu.Lock()
	enc := c.enc
	c.enc = nil
	c.mu.Unlock()

	if enc != nil {
		if err := enc.Stop(); err != nil {
			c.log.Debug().Err(err).Msg("Encoder stop")
		}
	}
}

func (c *dcaConn) Disconnect(_ context.Context) error {
	c.Stop()
	_ = c.vc.Speaking(false)
	return errors.WrapIf(c.vc.Disconnect(), "failed to disconnect voice")
}
