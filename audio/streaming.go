// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

const (
	// DefaultLookaheadFrames is the streaming lookahead capacity when none is configured.
	DefaultLookaheadFrames = 16384

	// frames requested from the decoder per ReadSamples call
	decodeBlockFrames = 1024

	// consecutive empty reads after which a refill gives up for this tick
	maxEmptyReads = 3
)

// StreamingConfig tunes a StreamingDecoder.
type StreamingConfig struct {
	// LookaheadFrames is the capacity of the decoded frame buffer.
	LookaheadFrames int
	// LowWaterFrames triggers decoding once the buffer drops below it.
	LowWaterFrames int
	// Loop reopens the decoder at end of data.
	Loop bool
}

// StreamingDecoder drives a progressive decoder forward into a lookahead
// buffer. Decoding happens in Refill, which the render side calls once per
// tick with a frame budget; reading frames out never decodes.
//
// Each playing stream owns its own StreamingDecoder, and with it its own
// decoder instance.
type StreamingDecoder struct {
	open       Opener
	src        Source
	queue      *FrameQueue
	scratch    []float32
	channels   int
	sampleRate int
	lowWater   int
	loop       bool

	eof       bool
	err       error
	sinceOpen int64
	decoded   int64
}

// NewStreamingDecoder opens a decoder instance and fills the lookahead.
// Failing to open or to decode the first block is reported here, at play
// time, rather than as silent starvation later.
func NewStreamingDecoder(open Opener, cfg StreamingConfig) (*StreamingDecoder, error) {
	if open == nil {
		return nil, ErrNilOpener
	}

	src, err := openSource(open)
	if err != nil {
		return nil, err
	}

	lookahead := cfg.LookaheadFrames
	if lookahead <= 0 {
		lookahead = DefaultLookaheadFrames
	}
	lowWater := cfg.LowWaterFrames
	if lowWater <= 0 || lowWater > lookahead {
		lowWater = lookahead / 2
	}

	d := &StreamingDecoder{
		open:       open,
		src:        src,
		queue:      NewFrameQueue(src.Channels(), lookahead),
		scratch:    make([]float32, decodeBlockFrames*src.Channels()),
		channels:   src.Channels(),
		sampleRate: src.SampleRate(),
		lowWater:   lowWater,
		loop:       cfg.Loop,
	}

	if _, err := d.fill(lookahead); err != nil {
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

func openSource(open Opener) (Source, error) {
	src, err := open()
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if src.SampleRate() <= 0 {
		_ = src.Close()
		return nil, ErrInvalidSampleRate
	}

	switch ch := src.Channels(); {
	case ch == 1 || ch == 2:
		return src, nil
	case ch > 2:
		return NewMonoMixer(src), nil
	default:
		_ = src.Close()
		return nil, ErrUnsupportedChannels
	}
}

func (d *StreamingDecoder) SampleRate() int { return d.sampleRate }
func (d *StreamingDecoder) Channels() int   { return d.channels }

// Buffered reports decoded frames waiting in the lookahead.
func (d *StreamingDecoder) Buffered() int { return d.queue.Len() }

// Decoded reports the total frames decoded since creation, across loops.
func (d *StreamingDecoder) Decoded() int64 { return d.decoded }

// Err returns the decode failure that ended the stream, if any.
func (d *StreamingDecoder) Err() error { return d.err }

// Starved reports an empty lookahead while more data is still expected.
func (d *StreamingDecoder) Starved() bool { return !d.eof && d.queue.Len() == 0 }

// Exhausted reports that the decoder hit its end and every frame was read.
func (d *StreamingDecoder) Exhausted() bool { return d.eof && d.queue.Len() == 0 }

// Ready reports whether frames can be read without hitting starvation.
// Once the decoder is at its end, reads past the data pad with silence, so
// the stream is always ready.
func (d *StreamingDecoder) Ready(frames int) bool {
	return d.eof || d.queue.Len() >= frames
}

// Refill decodes up to budget frames when the lookahead is below its low
// water mark. It returns the number of frames decoded. A decode error ends
// the stream: the error is returned once and remembered in Err.
func (d *StreamingDecoder) Refill(budget int) (int, error) {
	return d.RefillFor(budget, 0)
}

// RefillFor is Refill for a reader that needs at least need frames for its
// next read: it also decodes while fewer than need frames are buffered, even
// above the low water mark.
func (d *StreamingDecoder) RefillFor(budget, need int) (int, error) {
	if d.eof || d.queue.Len() >= max(d.lowWater, need) {
		return 0, nil
	}
	return d.fill(budget)
}

// Cap is the lookahead capacity in frames.
func (d *StreamingDecoder) Cap() int { return d.queue.Cap() }

func (d *StreamingDecoder) fill(budget int) (int, error) {
	decoded := 0
	emptyReads := 0

	for !d.eof && decoded < budget && d.queue.Free() > 0 {
		want := min(d.queue.Free(), budget-decoded, decodeBlockFrames)
		n, err := d.src.ReadSamples(d.scratch[:want*d.channels])

		frames := n / d.channels
		if frames > 0 {
			d.queue.Push(d.scratch[:frames*d.channels])
			decoded += frames
			d.decoded += int64(frames)
			d.sinceOpen += int64(frames)
			emptyReads = 0
		}

		switch {
		case errors.Is(err, io.EOF):
			if err := d.rewind(); err != nil {
				return decoded, err
			}
		case err != nil:
			d.eof = true
			d.err = fmt.Errorf("decode stream: %w", err)
			return decoded, d.err
		case frames == 0:
			emptyReads++
			if emptyReads >= maxEmptyReads {
				return decoded, nil
			}
		}
	}

	return decoded, nil
}

// rewind handles end of data: a looping stream reopens its decoder, any other
// stream (or a looping one that produced nothing since the last open) ends.
func (d *StreamingDecoder) rewind() error {
	if !d.loop || d.sinceOpen == 0 {
		d.eof = true
		return nil
	}

	_ = d.src.Close()
	src, err := openSource(d.open)
	if err != nil {
		d.eof = true
		d.err = err
		return err
	}
	if src.Channels() != d.channels || src.SampleRate() != d.sampleRate {
		_ = src.Close()
		d.src = nil
		d.eof = true
		d.err = fmt.Errorf("reopen stream: %w", ErrUnsupportedChannels)
		return d.err
	}

	d.src = src
	d.sinceOpen = 0
	return nil
}

// ReadFrame pops one decoded frame from the lookahead.
func (d *StreamingDecoder) ReadFrame() (l, r float32, ok bool) {
	return d.queue.PopFrame()
}

// Close releases the decoder instance.
func (d *StreamingDecoder) Close() error {
	if d.src == nil {
		return nil
	}

	err := d.src.Close()
	d.src = nil
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
