// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// mockOggReader mimics oggvorbis.Reader: Read returns a value count and may
// stop in the middle of the caller's buffer.
type mockOggReader struct {
	sampleRate int
	channels   int
	samples    []float32
	maxRead    int
	offset     int
	fail       error
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if m.fail != nil {
		return 0, m.fail
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	if m.maxRead > 0 && len(p) > m.maxRead {
		p = p[:m.maxRead]
	}
	n := copy(p, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"text", []byte("This is not Ogg Vorbis data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	stereo := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3, 0.4, -0.4, 0.5, -0.5}

	tests := []struct {
		name     string
		channels int
		maxRead  int
		dstSize  int
	}{
		{"full buffer", 2, 0, 16},
		{"short reads", 2, 4, 16},
		{"destination not frame aligned", 2, 0, 5},
		{"mono view", 1, 3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &source{
				dec:        &mockOggReader{sampleRate: 48000, channels: tt.channels, samples: stereo, maxRead: tt.maxRead},
				sampleRate: 48000,
				channels:   tt.channels,
			}

			var got []float32
			buf := make([]float32, tt.dstSize)
			for range 100 {
				n, err := s.ReadSamples(buf)
				if n%tt.channels != 0 && tt.maxRead == 0 {
					t.Fatalf("partial frame: n = %d", n)
				}
				got = append(got, buf[:n]...)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples: %v", err)
				}
			}

			if len(got) != len(stereo) {
				t.Fatalf("got %d samples, want %d", len(got), len(stereo))
			}
			for i := range got {
				if got[i] != stereo[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], stereo[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_SubFrame(t *testing.T) {
	t.Parallel()

	s := &source{dec: &mockOggReader{channels: 2, samples: []float32{1, 1}}, channels: 2}
	if n, err := s.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(1) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	s := &source{dec: &mockOggReader{channels: 1, fail: io.ErrUnexpectedEOF}, channels: 1}
	if _, err := s.ReadSamples(make([]float32, 8)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestSource_Close(t *testing.T) {
	t.Parallel()

	rec := &closeRecorder{}
	s := &source{dec: &mockOggReader{channels: 1}, closer: rec, channels: 1}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !rec.closed {
		t.Error("underlying reader was not closed")
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]float32, 8192)
	dst := make([]float32, 1024)

	b.ReportAllocs()
	for b.Loop() {
		s := &source{dec: &mockOggReader{channels: 2, samples: samples}, channels: 2}
		for {
			if _, err := s.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
