// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audmix/audio"
)

// frameReader is the part of flac.Stream a source reads from.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

// source interleaves decoded FLAC frames. A frame is kept until all of its
// samples were handed out.
type source struct {
	stream     frameReader
	sampleRate int
	channels   int
	scale      float32

	cur *frame.Frame
	pos int // next frame index inside cur
	eof bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }

// Close closes the stream, and with it the input when that is an
// io.Closer.
func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	dst = dst[:len(dst)-len(dst)%s.channels]
	if len(dst) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(dst) {
		if s.cur == nil || s.pos >= int(s.cur.BlockSize) {
			if s.eof {
				break
			}
			f, err := s.stream.ParseNext()
			if err == io.EOF {
				s.eof = true
				break
			}
			if err != nil {
				return n, fmt.Errorf("%w", err)
			}
			s.cur, s.pos = f, 0
			continue
		}

		for ch := range s.channels {
			dst[n+ch] = float32(s.cur.Subframes[ch].Samples[s.pos]) * s.scale
		}
		s.pos++
		n += s.channels
	}

	if n == 0 && s.eof {
		return 0, io.EOF
	}
	return n, nil
}

// Decoder reads native FLAC streams with github.com/mewkiz/flac.
type Decoder struct{}

// Decode parses the STREAMINFO block of r.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	bits := int(info.BitsPerSample)
	if bits < 4 || bits > 32 {
		_ = stream.Close()
		return nil, fmt.Errorf("%d bits: %w", bits, ErrUnsupportedBitDepth)
	}
	if info.NChannels < 1 {
		_ = stream.Close()
		return nil, ErrNoChannels
	}

	return newSource(stream, int(info.SampleRate), int(info.NChannels), bits), nil
}

func newSource(stream frameReader, sampleRate, channels, bits int) *source {
	return &source{
		stream:     stream,
		sampleRate: sampleRate,
		channels:   channels,
		scale:      1 / float32(int64(1)<<(bits-1)),
	}
}
