// SPDX-License-Identifier: EPL-2.0

package output

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/transport"
	"github.com/ik5/audmix/utils"
)

// WAVFile writes rendered frames as 16-bit PCM WAV, for offline renders
// and tests. Close must be called to finalize the header.
type WAVFile struct {
	enc      *wav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   int64
}

func NewWAVFile(w io.WriteSeeker, sampleRate, channels int) *WAVFile {
	return &WAVFile{
		enc: wav.NewEncoder(w, sampleRate, 16, channels, 1),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				SampleRate:  sampleRate,
				NumChannels: channels,
			},
			SourceBitDepth: 16,
		},
		channels: channels,
	}
}

// Frames reports how many frames were written.
func (f *WAVFile) Frames() int64 { return f.frames }

// WriteFrames encodes interleaved samples. Values are clamped to [-1, 1].
func (f *WAVFile) WriteFrames(samples []float32) error {
	if cap(f.buf.Data) < len(samples) {
		f.buf.Data = make([]int, len(samples))
	}
	f.buf.Data = f.buf.Data[:len(samples)]

	for i, v := range samples {
		f.buf.Data[i] = int(utils.Float32ToInt16(v))
	}

	if err := f.enc.Write(f.buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	f.frames += int64(len(samples) / f.channels)
	return nil
}

// Record renders chunks from src until frames frames were written; the
// last chunk is cut to fit.
func (f *WAVFile) Record(src transport.Producer, frames int64) error {
	for f.frames < frames {
		chunk := src.RenderChunk()
		n := min(int64(chunk.Frames()), frames-f.frames)
		if err := f.WriteFrames(chunk.Samples[:n*int64(f.channels)]); err != nil {
			return err
		}
	}
	return nil
}

func (f *WAVFile) Close() error {
	if err := f.enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
