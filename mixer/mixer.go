// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

const (
	DefaultSampleRate        = 48000
	DefaultChannels          = 2
	DefaultMaxStreams        = 64
	DefaultDecodeBudget      = 4 * audio.ChunkFrames
	DefaultDiagnosticsBuffer = 32

	// frames kept beyond a chunk's worth for the resampler's fractional
	// position and priming reads
	lookaheadSlack = 8
)

// Config describes the render side of a Mixer.
type Config struct {
	// SampleRate is the internal render rate in Hz.
	SampleRate int
	// Channels of the rendered chunks, 1 or 2.
	Channels      int
	Interpolation audio.Interpolation
	// MaxStreams presizes the stream tables; more streams still play.
	MaxStreams int
	// DecodeBudget caps the frames decoded for all streaming sources in
	// a single tick.
	DecodeBudget      int
	LookaheadFrames   int
	LowWaterFrames    int
	DiagnosticsBuffer int
	Logger            *slog.Logger
}

func (c *Config) setDefaults() error {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.SampleRate < 0 {
		return ErrInvalidRate
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.Channels != 1 && c.Channels != 2 {
		return ErrInvalidChannels
	}
	if c.MaxStreams <= 0 {
		c.MaxStreams = DefaultMaxStreams
	}
	if c.DecodeBudget <= 0 {
		c.DecodeBudget = DefaultDecodeBudget
	}
	if c.DiagnosticsBuffer <= 0 {
		c.DiagnosticsBuffer = DefaultDiagnosticsBuffer
	}
	return nil
}

// Stats is a snapshot of the render side counters.
type Stats struct {
	Active             int
	Ticks              uint64
	StarvedTicks       uint64
	Finished           uint64
	DroppedDiagnostics uint64
}

// Mixer owns every playing stream and renders them into fixed size chunks.
//
// The control methods (Play, Stop, SetVolume and the rest) only enqueue a
// command and may be called from any goroutine. RenderChunk, and with it
// all stream state, belongs to a single render goroutine. Commands are
// applied in arrival order at the start of the next RenderChunk.
type Mixer struct {
	cfg   Config
	bank  *Bank
	log   *slog.Logger
	queue *commandQueue

	nextHandle atomic.Uint64
	applied    atomic.Uint64 // highest handle whose play command was applied

	// render side
	streams    []*Stream
	byHandle   map[Handle]*Stream
	groups     map[GroupID]*Group
	pool       []*Stream
	master     float32
	mix        []float32
	chunk      *audio.Chunk
	refillNext int
	lastPlay   Handle
	liveDirty  bool

	// progress of every live stream, -1 when unknown
	liveMtx sync.RWMutex
	live    map[Handle]float32

	errs     chan error
	clock    atomic.Int64
	active   atomic.Int64
	ticks    atomic.Uint64
	starved  atomic.Uint64
	finished atomic.Uint64
	dropped  atomic.Uint64
}

// New builds a Mixer that plays assets from bank.
func New(bank *Bank, cfg Config) (*Mixer, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	m := &Mixer{
		cfg:      cfg,
		bank:     bank,
		log:      log.With("mixer", uuid.NewString()),
		queue:    newCommandQueue(cfg.MaxStreams),
		streams:  make([]*Stream, 0, cfg.MaxStreams),
		byHandle: make(map[Handle]*Stream, cfg.MaxStreams),
		groups:   make(map[GroupID]*Group),
		pool:     make([]*Stream, 0, cfg.MaxStreams),
		master:   1,
		mix:      make([]float32, 2*audio.ChunkFrames),
		chunk:    audio.NewChunk(cfg.Channels),
		live:     make(map[Handle]float32, cfg.MaxStreams),
		errs:     make(chan error, cfg.DiagnosticsBuffer),
	}

	m.log.Debug("mixer created", "rate", cfg.SampleRate, "channels", cfg.Channels)
	return m, nil
}

func (m *Mixer) SampleRate() int { return m.cfg.SampleRate }
func (m *Mixer) Channels() int   { return m.cfg.Channels }
func (m *Mixer) Bank() *Bank     { return m.bank }

// Errors delivers stream diagnostics (*StreamError). Diagnostics are
// dropped when nobody drains the channel.
func (m *Mixer) Errors() <-chan error { return m.errs }

func (m *Mixer) Stats() Stats {
	return Stats{
		Active:             int(m.active.Load()),
		Ticks:              m.ticks.Load(),
		StarvedTicks:       m.starved.Load(),
		Finished:           m.finished.Load(),
		DroppedDiagnostics: m.dropped.Load(),
	}
}

// Play starts id and returns its handle right away. The handle can be used
// before the stream is rendered. Only an unknown id is rejected; problems
// opening a streaming source surface later on Errors.
func (m *Mixer) Play(id SourceID, p PlayParams) (Handle, error) {
	asset, ok := m.bank.Lookup(id)
	if !ok {
		return 0, fmt.Errorf("%q: %w", id, ErrUnknownSource)
	}
	return m.enqueuePlay(asset, p), nil
}

// PlayOneShot starts id without keeping a handle around.
func (m *Mixer) PlayOneShot(id SourceID, p PlayParams) error {
	_, err := m.Play(id, p)
	return err
}

// PlayTone starts an endless sine at frequency Hz.
func (m *Mixer) PlayTone(frequency float64, p PlayParams) Handle {
	return m.enqueuePlay(Asset{
		ID:         SourceID(fmt.Sprintf("tone:%g", frequency)),
		ToneHz:     frequency,
		SampleRate: m.cfg.SampleRate,
		Channels:   2,
	}, p)
}

func (m *Mixer) enqueuePlay(asset Asset, p PlayParams) Handle {
	var h Handle

	m.queue.mtx.Lock()
	h = Handle(m.nextHandle.Add(1))
	m.queue.pending = append(m.queue.pending, command{
		kind:   cmdPlay,
		handle: h,
		asset:  asset,
		params: p,
	})
	m.queue.mtx.Unlock()

	return h
}

// Stop ends a stream at the next tick. Unknown handles are ignored.
func (m *Mixer) Stop(h Handle) {
	m.send(command{kind: cmdStop, handle: h})
}

func (m *Mixer) SetVolume(h Handle, v float32) {
	m.send(command{kind: cmdSetVolume, handle: h, value: v})
}

// FadeTo ramps the stream volume linearly to target over d, starting from
// whatever level is heard when the command is applied.
func (m *Mixer) FadeTo(h Handle, target float32, d time.Duration) {
	m.send(command{kind: cmdFadeTo, handle: h, value: target, duration: d})
}

// FadeOut fades the stream to silence over d and then stops it.
func (m *Mixer) FadeOut(h Handle, d time.Duration) {
	m.send(command{kind: cmdFadeOut, handle: h, duration: d})
}

func (m *Mixer) SetPan(h Handle, pan float32) {
	m.send(command{kind: cmdSetPan, handle: h, value: pan})
}

func (m *Mixer) SetSpeed(h Handle, speed float32) {
	m.send(command{kind: cmdSetSpeed, handle: h, value: speed})
}

func (m *Mixer) SetMute(h Handle, muted bool) {
	m.send(command{kind: cmdSetMute, handle: h, flag: muted})
}

func (m *Mixer) SetGroupVolume(g GroupID, v float32) {
	m.send(command{kind: cmdSetGroupVolume, group: g, value: v})
}

func (m *Mixer) SetGroupMute(g GroupID, muted bool) {
	m.send(command{kind: cmdSetGroupMute, group: g, flag: muted})
}

func (m *Mixer) SetMasterVolume(v float32) {
	m.send(command{kind: cmdSetMasterVolume, value: v})
}

// StopAll ends every stream at the next tick.
func (m *Mixer) StopAll() {
	m.send(command{kind: cmdStopAll})
}

func (m *Mixer) send(c command) {
	switch c.kind {
	case cmdStop, cmdSetVolume, cmdFadeTo, cmdFadeOut, cmdSetPan, cmdSetSpeed, cmdSetMute:
		if c.handle == 0 {
			return
		}
	}
	m.queue.push(c)
}

// IsPlaying reports whether h is queued or still rendering. The answer
// lags the render side by at most one tick.
func (m *Mixer) IsPlaying(h Handle) bool {
	if h == 0 || uint64(h) > m.nextHandle.Load() {
		return false
	}
	if uint64(h) > m.applied.Load() {
		return true
	}

	m.liveMtx.RLock()
	_, ok := m.live[h]
	m.liveMtx.RUnlock()
	return ok
}

// Progress reports how far h has played through its clip, in [0, 1]. ok is
// false while h waits for its start and for sources of unknown length such
// as streams and tones. A finished stream reports 1.
func (m *Mixer) Progress(h Handle) (float64, bool) {
	if h == 0 || uint64(h) > m.nextHandle.Load() || uint64(h) > m.applied.Load() {
		return 0, false
	}

	m.liveMtx.RLock()
	p, ok := m.live[h]
	m.liveMtx.RUnlock()

	switch {
	case !ok:
		return 1, true
	case p < 0:
		return 0, false
	default:
		return float64(p), true
	}
}

// Finished reports whether h played to its end, was stopped or failed to
// start. Unknown and still queued handles are not finished.
func (m *Mixer) Finished(h Handle) bool {
	if h == 0 || uint64(h) > m.applied.Load() {
		return false
	}

	m.liveMtx.RLock()
	_, ok := m.live[h]
	m.liveMtx.RUnlock()
	return !ok
}

// Clock is the number of frames rendered so far at the mixing rate.
func (m *Mixer) Clock() int64 { return m.clock.Load() }

// RenderChunk applies queued commands, advances every stream by one chunk
// and returns the clamped mix. The chunk is reused by the next call.
func (m *Mixer) RenderChunk() *audio.Chunk {
	m.applyCommands()
	clear(m.mix)
	m.refill()

	for _, s := range m.streams {
		if s.finished {
			continue
		}
		if s.render(m.mix, m.busGain(s)) {
			m.starved.Add(1)
		}
	}

	m.removeFinished()
	m.publish()

	if m.cfg.Channels == 2 {
		copy(m.chunk.Samples, m.mix)
	} else {
		audio.DownmixInterleaved(m.chunk.Samples, m.mix, 2)
	}
	m.chunk.Clamp()

	m.clock.Add(audio.ChunkFrames)
	m.ticks.Add(1)
	return m.chunk
}

func (m *Mixer) busGain(s *Stream) float32 {
	if s.mute {
		return 0
	}
	return m.groups[s.group].gain() * m.master
}

func (m *Mixer) applyCommands() {
	for _, c := range m.queue.drain() {
		if c.kind == cmdPlay {
			m.applyPlay(c)
			continue
		}

		switch c.kind {
		case cmdSetGroupVolume:
			m.group(c.group).Volume = utils.Clamp01(c.value)
			continue
		case cmdSetGroupMute:
			m.group(c.group).Muted = c.flag
			continue
		case cmdSetMasterVolume:
			m.master = utils.Clamp01(c.value)
			continue
		case cmdStopAll:
			for _, s := range m.streams {
				s.finished = true
			}
			continue
		}

		s, ok := m.byHandle[c.handle]
		if !ok || s.finished {
			continue
		}

		switch c.kind {
		case cmdStop:
			s.finished = true
		case cmdSetVolume:
			s.setVolume(c.value)
		case cmdFadeTo:
			s.fadeTo(c.value, m.durationFrames(c.duration), false)
		case cmdFadeOut:
			s.fadeTo(0, m.durationFrames(c.duration), true)
		case cmdSetPan:
			s.pan = clampPan(c.value)
		case cmdSetSpeed:
			s.setSpeed(c.value)
		case cmdSetMute:
			s.mute = c.flag
		}
	}
}

func (m *Mixer) applyPlay(c command) {
	m.lastPlay = c.handle
	m.liveDirty = true

	cursor, err := m.openCursor(c.asset, c.params.Loop)
	if err != nil {
		m.report(c.handle, c.asset.ID, err)
		return
	}

	var s *Stream
	if n := len(m.pool); n > 0 {
		s = m.pool[n-1]
		m.pool[n-1] = nil
		m.pool = m.pool[:n-1]
	} else {
		s = newStream(m.cfg.Interpolation)
	}

	s.start(c.handle, c.asset, cursor, m.cfg.SampleRate, c.params)
	s.delay += c.params.Schedule.wait(m.clock.Load(), m.cfg.SampleRate)
	m.streams = append(m.streams, s)
	m.byHandle[c.handle] = s
	m.active.Store(int64(len(m.streams)))

	m.log.Debug("stream started", "handle", c.handle, "source", c.asset.ID, "kind", cursor.Kind())
}

func (m *Mixer) openCursor(a Asset, loop bool) (*audio.Cursor, error) {
	switch {
	case a.Clip != nil:
		return audio.NewStaticCursor(a.Clip, loop), nil
	case a.Open != nil:
		dec, err := audio.NewStreamingDecoder(a.Open, audio.StreamingConfig{
			LookaheadFrames: m.lookaheadFor(a),
			LowWaterFrames:  m.cfg.LowWaterFrames,
			Loop:            loop,
		})
		if err != nil {
			return nil, err
		}
		return audio.NewStreamingCursor(dec), nil
	default:
		return audio.NewToneCursor(a.ToneHz, m.cfg.SampleRate), nil
	}
}

// lookaheadFor sizes a streaming lookahead so that it can hold a whole
// chunk worth of source frames even at the highest playback speed.
func (m *Mixer) lookaheadFor(a Asset) int {
	lookahead := m.cfg.LookaheadFrames
	if lookahead <= 0 {
		lookahead = audio.DefaultLookaheadFrames
	}

	maxRatio := float64(a.SampleRate) / float64(m.cfg.SampleRate) * maxSpeed
	return max(lookahead, int(math.Ceil(audio.ChunkFrames*maxRatio))+lookaheadSlack)
}

func (m *Mixer) group(id GroupID) *Group {
	g, ok := m.groups[id]
	if !ok {
		g = &Group{Volume: 1}
		m.groups[id] = g
	}
	return g
}

func (m *Mixer) durationFrames(d time.Duration) int {
	return int(d.Seconds()*float64(m.cfg.SampleRate) + 0.5)
}

// refill spends the tick's decode budget on streaming sources, starting
// where the previous tick stopped so no stream is always served last.
func (m *Mixer) refill() {
	n := len(m.streams)
	if n == 0 {
		return
	}

	budget := m.cfg.DecodeBudget
	start := m.refillNext % n
	for i := range n {
		s := m.streams[(start+i)%n]
		dec := s.cursor.Streaming()
		if dec == nil || s.finished {
			continue
		}
		if budget <= 0 {
			m.refillNext = (start + i) % n
			return
		}

		decoded, err := dec.RefillFor(budget, s.rs.Need(audio.ChunkFrames, s.ratio()))
		budget -= decoded
		if err != nil {
			m.report(s.handle, s.source, err)
		}
	}
	m.refillNext = (start + 1) % n
}

func (m *Mixer) removeFinished() {
	kept := m.streams[:0]
	for _, s := range m.streams {
		if !s.finished {
			kept = append(kept, s)
			continue
		}

		delete(m.byHandle, s.handle)
		if err := s.release(); err != nil {
			m.log.Warn("closing stream source", "handle", s.handle, "err", err)
		}
		m.pool = append(m.pool, s)
		m.finished.Add(1)
		m.liveDirty = true
	}

	clear(m.streams[len(kept):])
	m.streams = kept
	m.active.Store(int64(len(kept)))
}

// publish refreshes the state read by IsPlaying and Progress.
func (m *Mixer) publish() {
	m.liveMtx.Lock()
	if m.liveDirty {
		clear(m.live)
		m.applied.Store(uint64(m.lastPlay))
	}
	for _, s := range m.streams {
		m.live[s.handle] = s.progress()
	}
	m.liveMtx.Unlock()

	m.liveDirty = false
}

func (m *Mixer) report(h Handle, id SourceID, err error) {
	m.log.Warn("stream diagnostic", "handle", h, "source", id, "err", err)

	select {
	case m.errs <- &StreamError{Handle: h, Source: id, Err: err}:
	default:
		m.dropped.Add(1)
	}
}

// Close releases every stream. It must not run concurrently with
// RenderChunk.
func (m *Mixer) Close() error {
	for _, s := range m.streams {
		if err := s.release(); err != nil {
			m.log.Warn("closing stream source", "handle", s.handle, "err", err)
		}
	}
	clear(m.streams)
	m.streams = m.streams[:0]
	clear(m.byHandle)
	m.active.Store(0)
	return nil
}
