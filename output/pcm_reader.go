// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audmix/transport"
	"github.com/ik5/audmix/utils"
)

// Format is the sample encoding handed to the device, fixed for a session.
type Format uint8

const (
	FormatFloat32LE Format = iota
	FormatInt16LE
)

// BytesPerSample of the encoding.
func (f Format) BytesPerSample() int {
	if f == FormatInt16LE {
		return 2
	}
	return 4
}

func (f Format) String() string {
	switch f {
	case FormatFloat32LE:
		return "f32le"
	case FormatInt16LE:
		return "s16le"
	default:
		return "unknown"
	}
}

// frames converted per inner step of Read
const readBlockFrames = 1024

// PCMReader is the io.Reader a device pulls from. Every Read drains the
// ring into the caller's buffer, fills any shortfall with silence and
// returns a full buffer; it never blocks and never allocates.
type PCMReader struct {
	ring     *transport.Ring
	declick  *transport.Declicker
	format   Format
	channels int
	scratch  []float32
}

// NewPCMReader encodes frames from ring. A nil declicker leaves underruns
// as hard silence.
func NewPCMReader(ring *transport.Ring, format Format, declick *transport.Declicker) *PCMReader {
	return &PCMReader{
		ring:     ring,
		declick:  declick,
		format:   format,
		channels: ring.Channels(),
		scratch:  make([]float32, readBlockFrames*ring.Channels()),
	}
}

func (p *PCMReader) Format() Format { return p.format }

// Read fills buf with whole frames. Trailing bytes that do not make up a
// frame are left untouched.
func (p *PCMReader) Read(buf []byte) (int, error) {
	frameBytes := p.channels * p.format.BytesPerSample()
	frames := len(buf) / frameBytes

	for done := 0; done < frames; {
		n := min(frames-done, readBlockFrames)
		block := p.scratch[:n*p.channels]

		got := p.ring.Pull(block)
		if p.declick != nil {
			p.declick.Process(block, got)
		}

		p.encode(buf[done*frameBytes:], block)
		done += n
	}

	return frames * frameBytes, nil
}

func (p *PCMReader) encode(dst []byte, samples []float32) {
	switch p.format {
	case FormatInt16LE:
		for i, v := range samples {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(utils.Float32ToInt16(v)))
		}
	default:
		for i, v := range samples {
			binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
		}
	}
}
