// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/output"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	s := Defaults()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}

	if s.SampleRate != 48000 || s.Channels != 2 {
		t.Errorf("format = %d Hz / %d ch, want 48000 / 2", s.SampleRate, s.Channels)
	}
	if s.OutputRate() != 48000 {
		t.Errorf("OutputRate = %d, want 48000", s.OutputRate())
	}
	if s.LookaheadFrames != audio.DefaultLookaheadFrames {
		t.Errorf("LookaheadFrames = %d", s.LookaheadFrames)
	}
	if s.DeviceBuffer != 40*time.Millisecond {
		t.Errorf("DeviceBuffer = %v", s.DeviceBuffer)
	}
	if !s.Declick {
		t.Error("Declick should default to true")
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audmix.yaml")
	body := []byte(`
samplerate: 44100
devicerate: 48000
channels: 1
interpolation: cubic
format: s16le
tickinterval: 3ms
ringchunks: 4
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.SampleRate != 44100 || s.OutputRate() != 48000 || s.Channels != 1 {
		t.Errorf("got rate %d, device %d, channels %d", s.SampleRate, s.OutputRate(), s.Channels)
	}
	if mode, _ := s.InterpolationMode(); mode != audio.Cubic {
		t.Errorf("interpolation = %v, want cubic", mode)
	}
	if f, _ := s.OutputFormat(); f != output.FormatInt16LE {
		t.Errorf("format = %v, want s16le", f)
	}
	if s.TickInterval != 3*time.Millisecond {
		t.Errorf("TickInterval = %v, want 3ms", s.TickInterval)
	}
	if s.RingChunks != 4 {
		t.Errorf("RingChunks = %d, want 4", s.RingChunks)
	}
	// untouched keys keep their defaults
	if s.MaxStreams != 64 {
		t.Errorf("MaxStreams = %d, want 64", s.MaxStreams)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.SampleRate != Defaults().SampleRate {
		t.Errorf("SampleRate = %d, want default", s.SampleRate)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"channels", "channels: 6\n", ErrInvalidChannels},
		{"rate", "samplerate: -1\n", ErrInvalidSampleRate},
		{"interpolation", "interpolation: sinc\n", ErrInvalidInterpolation},
		{"format", "format: u8\n", ErrInvalidFormat},
		{"loglevel", "loglevel: loud\n", ErrInvalidLogLevel},
		{"ring", "ringchunks: 1\n", ErrInvalidRingSize},
		{"negative lookahead", "lookaheadframes: -1\n", ErrInvalidLookahead},
		{"negative low water", "lowwaterframes: -5\n", ErrInvalidLookahead},
		{"low water above lookahead", "lookaheadframes: 512\nlowwaterframes: 1024\n", ErrInvalidLookahead},
		{"negative budget", "decodebudget: -1\n", ErrInvalidBudget},
		{"negative chunks per tick", "maxchunkspertick: -2\n", ErrInvalidBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "audmix.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatal(err)
			}

			if _, err := Load(path); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audmix.yaml")
	if err := os.WriteFile(path, []byte("samplerate: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}
