// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/mewkiz/flac/frame"
)

// mockStream hands out prebuilt frames.
type mockStream struct {
	frames []*frame.Frame
	next   int
	fail   error
	closed bool
}

func (m *mockStream) ParseNext() (*frame.Frame, error) {
	if m.next >= len(m.frames) {
		if m.fail != nil {
			return nil, m.fail
		}
		return nil, io.EOF
	}
	f := m.frames[m.next]
	m.next++
	return f, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

func newFrame(channels ...[]int32) *frame.Frame {
	f := &frame.Frame{}
	f.BlockSize = uint16(len(channels[0]))
	for _, samples := range channels {
		f.Subframes = append(f.Subframes, &frame.Subframe{Samples: samples})
	}
	return f
}

func readAll(t *testing.T, s *source, size int) ([]float32, error) {
	t.Helper()

	var out []float32
	buf := make([]float32, size)
	for range 1000 {
		n, err := s.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
	t.Fatal("source never reached EOF")
	return nil, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"text", []byte("This is not FLAC data")},
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

func TestSource_Interleaves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
	}{
		{"large destination", 64},
		{"frame splits across reads", 3},
		{"one frame per read", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stream := &mockStream{frames: []*frame.Frame{
				newFrame([]int32{16384, -16384}, []int32{8192, -8192}),
				newFrame([]int32{0}, []int32{32767}),
			}}
			s := newSource(stream, 44100, 2, 16)

			got, err := readAll(t, s, tt.size)
			if err != nil {
				t.Fatal(err)
			}

			want := []float32{0.5, 0.25, -0.5, -0.25, 0, 32767.0 / 32768.0}
			if len(got) != len(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSource_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits   int
		sample int32
		want   float32
	}{
		{8, 64, 0.5},
		{12, -1024, -0.5},
		{16, 8192, 0.25},
		{24, 4194304, 0.5},
	}

	for _, tt := range tests {
		s := newSource(&mockStream{frames: []*frame.Frame{newFrame([]int32{tt.sample})}}, 8000, 1, tt.bits)
		dst := make([]float32, 1)
		if n, err := s.ReadSamples(dst); n != 1 || err != nil {
			t.Fatalf("%d bits: ReadSamples = (%d, %v)", tt.bits, n, err)
		}
		if dst[0] != tt.want {
			t.Errorf("%d bits: %d = %v, want %v", tt.bits, tt.sample, dst[0], tt.want)
		}
	}
}

func TestSource_ErrorAndClose(t *testing.T) {
	t.Parallel()

	stream := &mockStream{
		frames: []*frame.Frame{newFrame([]int32{100})},
		fail:   io.ErrUnexpectedEOF,
	}
	s := newSource(stream, 8000, 1, 16)

	got, err := readAll(t, s, 4)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d samples before the error, want 1", len(got))
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if !stream.closed {
		t.Error("stream not closed")
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	left := make([]int32, 4096)
	right := make([]int32, 4096)
	dst := make([]float32, 1024)

	b.ReportAllocs()
	for b.Loop() {
		s := newSource(&mockStream{frames: []*frame.Frame{newFrame(left, right)}}, 44100, 2, 16)
		for {
			if _, err := s.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
