// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

func loopingMixer(t testing.TB, rate, channels int, clip *audio.Clip) *Mixer {
	t.Helper()

	m, bank := newTestMixer(t, rate, channels)
	if err := bank.AddClip("loop", clip); err != nil {
		t.Fatal(err)
	}
	p := DefaultPlayParams()
	p.Loop = true
	play(t, m, "loop", p)
	return m
}

func TestOutputStage_Upsamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		rate     int
	}{
		{"stereo 22050 to 44100", 2, 44100},
		{"mono 22050 to 48000", 1, 48000},
		{"stereo 22050 to 16000", 2, 16000},
		{"same rate", 2, 22050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := loopingMixer(t, 22050, tt.channels, constClip(t, 22050, 22050, 0.5))
			stage, err := NewOutputStage(m, tt.rate, audio.Linear)
			if err != nil {
				t.Fatal(err)
			}
			if stage.SampleRate() != tt.rate || stage.Channels() != tt.channels {
				t.Fatalf("format = %d/%d", stage.SampleRate(), stage.Channels())
			}

			dst := make([]float32, 3000*tt.channels)
			stage.Fill(dst)
			for i, v := range dst {
				if !near(v, 0.5) {
					t.Fatalf("sample %d = %v, want 0.5", i, v)
				}
			}

			if got := stage.RenderChunk().Frames(); got != audio.ChunkFrames {
				t.Errorf("RenderChunk() frames = %d", got)
			}
		})
	}
}

func TestOutputStage_Continuity(t *testing.T) {
	t.Parallel()

	clip, err := audio.LoadClip(audiotest.NewSineSource(22050, 2, 22050, 330))
	if err != nil {
		t.Fatal(err)
	}

	const total = 5000
	whole := make([]float32, 2*total)
	a, err := NewOutputStage(loopingMixer(t, 22050, 2, clip), 44100, audio.Cubic)
	if err != nil {
		t.Fatal(err)
	}
	a.Fill(whole)

	split := make([]float32, 2*total)
	b, err := NewOutputStage(loopingMixer(t, 22050, 2, clip), 44100, audio.Cubic)
	if err != nil {
		t.Fatal(err)
	}
	for done := 0; done < total; {
		n := min(333, total-done)
		b.Fill(split[2*done : 2*(done+n)])
		done += n
	}

	for i := range whole {
		if whole[i] != split[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, whole[i], split[i])
		}
	}
}

func TestNewOutputStage_InvalidRate(t *testing.T) {
	t.Parallel()

	m, _ := newTestMixer(t, 22050, 2)
	if _, err := NewOutputStage(m, 0, audio.Linear); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("NewOutputStage() error = %v", err)
	}
}

func TestOutputStage_ZeroAlloc(t *testing.T) {
	m := loopingMixer(t, 22050, 2, constClip(t, 22050, 22050, 0.5))
	stage, err := NewOutputStage(m, 48000, audio.Linear)
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]float32, 2*441)
	stage.Fill(dst)

	allocs := testing.AllocsPerRun(100, func() {
		stage.Fill(dst)
	})
	if allocs != 0 {
		t.Errorf("Fill allocates %v times per call", allocs)
	}
}
