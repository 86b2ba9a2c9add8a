// SPDX-License-Identifier: EPL-2.0

package audio

// Kind tags the variant held by a Cursor.
type Kind uint8

const (
	KindStatic Kind = iota
	KindStreaming
	KindTone
	KindFeed
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindStreaming:
		return "streaming"
	case KindTone:
		return "tone"
	case KindFeed:
		return "feed"
	default:
		return "unknown"
	}
}

// Cursor reads native-rate frames from one of a closed set of sources.
// It is owned by a single stream and never shared.
type Cursor struct {
	kind     Kind
	channels int
	rate     int
	loop     bool

	clip *Clip
	pos  int

	stream *StreamingDecoder
	tone   *Tone
	feed   *FrameQueue
}

// NewStaticCursor reads a shared Clip from its first frame. A looping cursor
// wraps inside the clip's loop section.
func NewStaticCursor(clip *Clip, loop bool) *Cursor {
	return &Cursor{
		kind:     KindStatic,
		channels: clip.Channels(),
		rate:     clip.SampleRate(),
		loop:     loop,
		clip:     clip,
	}
}

// NewStreamingCursor reads from a streaming decoder's lookahead. Looping is
// handled by the decoder.
func NewStreamingCursor(dec *StreamingDecoder) *Cursor {
	return &Cursor{
		kind:     KindStreaming,
		channels: dec.Channels(),
		rate:     dec.SampleRate(),
		loop:     dec.loop,
		stream:   dec,
	}
}

// NewToneCursor produces an endless stereo sine.
func NewToneCursor(frequency float64, sampleRate int) *Cursor {
	return &Cursor{
		kind:     KindTone,
		channels: 2,
		rate:     sampleRate,
		loop:     true,
		tone:     NewTone(frequency, sampleRate),
	}
}

// NewFeedCursor reads frames a caller pushes into q. The feed never ends;
// callers keep it topped up and check Ready before pulling.
func NewFeedCursor(q *FrameQueue, sampleRate int) *Cursor {
	return &Cursor{
		kind:     KindFeed,
		channels: q.Channels(),
		rate:     sampleRate,
		loop:     true,
		feed:     q,
	}
}

func (c *Cursor) Kind() Kind      { return c.kind }
func (c *Cursor) Channels() int   { return c.channels }
func (c *Cursor) SampleRate() int { return c.rate }
func (c *Cursor) Looping() bool   { return c.loop }

// Streaming returns the decoder behind a streaming cursor, or nil.
func (c *Cursor) Streaming() *StreamingDecoder { return c.stream }

// ReadFrame returns the next native frame. ok is false once the source has
// no more data; mono sources report r as zero.
func (c *Cursor) ReadFrame() (l, r float32, ok bool) {
	switch c.kind {
	case KindStatic:
		if c.loop {
			start, frames := c.clip.LoopSection()
			if c.pos >= start+frames {
				c.pos = start
			}
		}
		if c.pos >= c.clip.Frames() {
			return 0, 0, false
		}
		l, r = c.clip.Frame(c.pos)
		c.pos++
		return l, r, true

	case KindStreaming:
		return c.stream.ReadFrame()

	case KindTone:
		v := c.tone.Next()
		return v, v, true

	case KindFeed:
		return c.feed.PopFrame()
	}

	return 0, 0, false
}

// Ready reports whether frames can be read without starving. Sources that
// are decoded up front are always ready.
func (c *Cursor) Ready(frames int) bool {
	switch c.kind {
	case KindStreaming:
		return c.stream.Ready(frames)
	case KindFeed:
		return c.feed.Len() >= frames
	default:
		return true
	}
}

// Position reports the static cursor's next frame index.
func (c *Cursor) Position() int { return c.pos }

// Progress reports how far a static cursor is through its clip, in [0, 1].
// A looping cursor wraps back with it. Other kinds have no known length.
func (c *Cursor) Progress() (float64, bool) {
	if c.kind != KindStatic || c.clip.Frames() == 0 {
		return 0, false
	}
	return min(float64(c.pos)/float64(c.clip.Frames()), 1), true
}

// Close releases a streaming decoder. Other kinds hold nothing to release.
func (c *Cursor) Close() error {
	if c.kind != KindStreaming {
		return nil
	}
	return c.stream.Close()
}
