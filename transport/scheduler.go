// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ik5/audmix/audio"
)

// DefaultMaxChunksPerTick bounds the render work of a single tick.
const DefaultMaxChunksPerTick = 2

// Producer renders the next chunk of audio.ChunkFrames frames.
type Producer interface {
	RenderChunk() *audio.Chunk
}

// SchedulerConfig tunes a Scheduler.
type SchedulerConfig struct {
	// Interval between ticks. Defaults to half a chunk at SampleRate.
	Interval   time.Duration
	SampleRate int
	// MaxChunksPerTick caps how many chunks one tick may render.
	MaxChunksPerTick int
	Logger           *slog.Logger
}

// SchedulerStats counts ticks and their outcome.
type SchedulerStats struct {
	Ticks    uint64
	Rendered uint64
	Skipped  uint64
}

// Scheduler keeps a Ring topped up from a Producer at a steady pace. Each
// tick renders only a few chunks, and none when the ring is full, so the
// cost of a tick stays bounded even when the consumer fell far behind.
type Scheduler struct {
	ring      *Ring
	src       Producer
	interval  time.Duration
	maxChunks int
	log       *slog.Logger

	ticks    atomic.Uint64
	rendered atomic.Uint64
	skipped  atomic.Uint64
}

func NewScheduler(ring *Ring, src Producer, cfg SchedulerConfig) *Scheduler {
	interval := cfg.Interval
	if interval <= 0 && cfg.SampleRate > 0 {
		interval = time.Duration(audio.ChunkFrames) * time.Second / time.Duration(cfg.SampleRate) / 2
	}
	if interval <= 0 {
		interval = 5 * time.Millisecond
	}

	maxChunks := cfg.MaxChunksPerTick
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunksPerTick
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{
		ring:      ring,
		src:       src,
		interval:  interval,
		maxChunks: maxChunks,
		log:       log,
	}
}

func (s *Scheduler) Interval() time.Duration { return s.interval }

// Tick renders up to MaxChunksPerTick chunks while the ring can take a
// whole chunk, and returns how many were pushed.
func (s *Scheduler) Tick() int {
	s.ticks.Add(1)

	n := 0
	for n < s.maxChunks && s.ring.Free() >= audio.ChunkFrames {
		chunk := s.src.RenderChunk()
		if !s.ring.Push(chunk.Samples) {
			break
		}
		n++
	}

	if n == 0 {
		s.skipped.Add(1)
	}
	s.rendered.Add(uint64(n))
	return n
}

// Run ticks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Debug("scheduler started", "interval", s.interval, "max_chunks", s.maxChunks)
	s.Tick()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("scheduler stopped", "ticks", s.ticks.Load(), "skipped", s.skipped.Load())
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Scheduler) Stats() SchedulerStats {
	return SchedulerStats{
		Ticks:    s.ticks.Load(),
		Rendered: s.rendered.Load(),
		Skipped:  s.skipped.Load(),
	}
}
