// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/transport"
)

// OtoConfig negotiates the device format once, at startup.
type OtoConfig struct {
	SampleRate int
	Channels   int
	Format     Format
	// BufferSize is the device buffer length; zero lets oto choose.
	BufferSize time.Duration
	// Declick fades underruns in and out instead of cutting to silence.
	Declick bool
	Logger  *slog.Logger
}

// Oto plays the ring through the platform audio device.
type Oto struct {
	ctx    *oto.Context
	player *oto.Player
	reader *PCMReader
	log    *slog.Logger
}

func otoFormat(f Format) (oto.Format, error) {
	switch f {
	case FormatFloat32LE:
		return oto.FormatFloat32LE, nil
	case FormatInt16LE:
		return oto.FormatSignedInt16LE, nil
	default:
		return 0, ErrUnsupportedFormat
	}
}

// NewOto opens the audio device and waits until it is ready. Only one oto
// context can exist per process.
func NewOto(ring *transport.Ring, cfg OtoConfig) (*Oto, error) {
	if cfg.Channels != ring.Channels() {
		return nil, fmt.Errorf("device has %d channels, ring has %d: %w", cfg.Channels, ring.Channels(), ErrChannelMismatch)
	}

	format, err := otoFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
		BufferSize:   cfg.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	var declick *transport.Declicker
	if cfg.Declick {
		declick = transport.NewDeclicker(cfg.Channels)
	}
	reader := NewPCMReader(ring, cfg.Format, declick)

	log.Info("audio device ready", "rate", cfg.SampleRate, "channels", cfg.Channels, "format", cfg.Format)

	return &Oto{
		ctx:    ctx,
		player: ctx.NewPlayer(reader),
		reader: reader,
		log:    log,
	}, nil
}

func (o *Oto) Start() { o.player.Play() }
func (o *Oto) Pause() { o.player.Pause() }

// Err reports a failure of the device or the player.
func (o *Oto) Err() error {
	if err := o.ctx.Err(); err != nil {
		return err
	}
	return o.player.Err()
}

func (o *Oto) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("close player: %w", err)
	}
	o.log.Debug("audio device closed")
	return nil
}
