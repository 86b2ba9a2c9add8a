// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/output"
	"github.com/ik5/audmix/transport"
)

var (
	ErrAlreadyStarted = errors.New("engine already started")
	ErrClosed         = errors.New("engine closed")
)

// Sink consumes the ring from the platform audio callback.
type Sink interface {
	Start()
	Close() error
}

// SinkFactory opens a Sink reading from ring.
type SinkFactory func(ring *transport.Ring, s config.Settings, log *slog.Logger) (Sink, error)

// OtoSink opens the default audio device with oto.
func OtoSink(ring *transport.Ring, s config.Settings, log *slog.Logger) (Sink, error) {
	format, err := s.OutputFormat()
	if err != nil {
		return nil, err
	}

	return output.NewOto(ring, output.OtoConfig{
		SampleRate: s.OutputRate(),
		Channels:   s.Channels,
		Format:     format,
		BufferSize: s.DeviceBuffer,
		Declick:    s.Declick,
		Logger:     log,
	})
}

// Engine wires a Mixer to an audio device: the mixer renders at the
// internal rate, an OutputStage converts to the device rate when the two
// differ, a Scheduler keeps the Ring filled and the Sink drains it.
type Engine struct {
	settings config.Settings
	log      *slog.Logger
	mixer    *mixer.Mixer
	producer transport.Producer
	ring     *transport.Ring
	sched    *transport.Scheduler
	newSink  SinkFactory

	mtx     sync.Mutex
	sink    Sink
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// New builds an engine that plays through the default audio device.
func New(bank *mixer.Bank, s config.Settings) (*Engine, error) {
	return NewWithSink(bank, s, OtoSink)
}

// NewWithSink builds an engine that plays through the sink made by
// newSink. The sink is only opened by Start.
func NewWithSink(bank *mixer.Bank, s config.Settings, newSink SinkFactory) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	mode, err := s.InterpolationMode()
	if err != nil {
		return nil, err
	}

	log := slog.Default().With("engine", uuid.NewString())

	m, err := mixer.New(bank, mixer.Config{
		SampleRate:      s.SampleRate,
		Channels:        s.Channels,
		Interpolation:   mode,
		MaxStreams:      s.MaxStreams,
		DecodeBudget:    s.DecodeBudget,
		LookaheadFrames: s.LookaheadFrames,
		LowWaterFrames:  s.LowWaterFrames,
		Logger:          log,
	})
	if err != nil {
		return nil, fmt.Errorf("create mixer: %w", err)
	}

	var producer transport.Producer = m
	if s.OutputRate() != s.SampleRate {
		stage, err := mixer.NewOutputStage(m, s.OutputRate(), mode)
		if err != nil {
			return nil, fmt.Errorf("create output stage: %w", err)
		}
		producer = stage
	}

	ring, err := transport.NewRing(s.Channels, s.RingChunks*audio.ChunkFrames)
	if err != nil {
		return nil, fmt.Errorf("create ring: %w", err)
	}

	sched := transport.NewScheduler(ring, producer, transport.SchedulerConfig{
		Interval:         s.TickInterval,
		SampleRate:       s.OutputRate(),
		MaxChunksPerTick: s.MaxChunksPerTick,
		Logger:           log,
	})

	log.Info("engine ready",
		"rate", s.SampleRate,
		"deviceRate", s.OutputRate(),
		"channels", s.Channels,
		"ringFrames", ring.Cap(),
		"tick", sched.Interval(),
	)

	return &Engine{
		settings: s,
		log:      log,
		mixer:    m,
		producer: producer,
		ring:     ring,
		sched:    sched,
		newSink:  newSink,
	}, nil
}

// Mixer is the control surface for game code.
func (e *Engine) Mixer() *mixer.Mixer { return e.mixer }

func (e *Engine) Ring() *transport.Ring { return e.ring }

func (e *Engine) Scheduler() *transport.Scheduler { return e.sched }

// Start prefills the ring, opens the sink and starts rendering in the
// background until ctx ends or Close is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return ErrClosed
	}
	if e.started {
		return ErrAlreadyStarted
	}

	for e.ring.Free() >= audio.ChunkFrames {
		if e.sched.Tick() == 0 {
			break
		}
	}

	sink, err := e.newSink(e.ring, e.settings, e.log)
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}
	e.sink = sink

	ctx, e.cancel = context.WithCancel(ctx)
	e.started = true

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			e.log.Warn("render loop stopped", "err", err)
		}
	}()

	sink.Start()
	return nil
}

// Close stops rendering, closes the sink and the mixer.
func (e *Engine) Close() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()

	var errs []error
	if e.sink != nil {
		errs = append(errs, e.sink.Close())
	}
	errs = append(errs, e.mixer.Close())

	stats := e.ring.Stats()
	e.log.Info("engine closed",
		"underruns", stats.Underruns,
		"overruns", stats.Overruns,
		"ticks", e.sched.Stats().Ticks,
	)

	return errors.Join(errs...)
}
