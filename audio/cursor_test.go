// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"testing"
)

func TestCursor_StaticLoopSection(t *testing.T) {
	t.Parallel()

	// intro 0,1 then loop 2,3,4
	clip, err := NewClipWithLoop(1000, 1, []float32{0, 1, 2, 3, 4}, 2, 3)
	if err != nil {
		t.Fatal(err)
	}

	cur := NewStaticCursor(clip, true)
	want := []float32{0, 1, 2, 3, 4, 2, 3, 4, 2}
	for i, w := range want {
		l, _, ok := cur.ReadFrame()
		if !ok || l != w {
			t.Fatalf("frame %d = (%v, %v), want (%v, true)", i, l, ok, w)
		}
	}
}

func TestCursor_StaticEnd(t *testing.T) {
	t.Parallel()

	clip, err := NewClipWithLoop(1000, 2, []float32{1, 2, 3, 4}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	cur := NewStaticCursor(clip, false)
	for range 2 {
		if _, _, ok := cur.ReadFrame(); !ok {
			t.Fatal("ReadFrame() ended early")
		}
	}
	if _, _, ok := cur.ReadFrame(); ok {
		t.Error("ReadFrame() past the end reported ok")
	}
	if cur.Position() != 2 {
		t.Errorf("Position() = %d, want 2", cur.Position())
	}
}

func TestCursor_Progress(t *testing.T) {
	t.Parallel()

	clip, err := NewClipWithLoop(1000, 1, []float32{0, 1, 2, 3}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	cur := NewStaticCursor(clip, true)
	for _, want := range []float64{0.25, 0.5, 0.75, 1, 0.75} {
		cur.ReadFrame()
		if p, ok := cur.Progress(); !ok || p != want {
			t.Fatalf("Progress() = (%v, %v), want (%v, true)", p, ok, want)
		}
	}

	if _, ok := NewToneCursor(440, 8000).Progress(); ok {
		t.Error("tone cursor reported a known length")
	}
}

func TestCursor_Tone(t *testing.T) {
	t.Parallel()

	cur := NewToneCursor(1000, 8000)
	if cur.Kind() != KindTone || cur.Channels() != 2 || !cur.Looping() {
		t.Fatalf("unexpected tone cursor %v/%d/%v", cur.Kind(), cur.Channels(), cur.Looping())
	}

	// 8 samples per cycle, the third one peaks
	for i := range 16 {
		l, r, ok := cur.ReadFrame()
		if !ok || l != r {
			t.Fatalf("frame %d = (%v, %v, %v)", i, l, r, ok)
		}
		want := math.Sin(2 * math.Pi * float64(i%8) / 8)
		if math.Abs(float64(l)-want) > 1e-5 {
			t.Errorf("frame %d = %v, want %v", i, l, want)
		}
	}
}

func TestCursor_Ready(t *testing.T) {
	t.Parallel()

	q := NewFrameQueue(1, 16)
	feed := NewFeedCursor(q, 48000)
	if feed.Ready(1) {
		t.Error("empty feed reported ready")
	}
	q.Push([]float32{1, 2, 3})
	if !feed.Ready(3) || feed.Ready(4) {
		t.Error("feed readiness does not follow queued frames")
	}

	static := NewStaticCursor(constClip(t, 1000, 4, 1), false)
	if !static.Ready(1 << 20) {
		t.Error("static cursor must always be ready")
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindStatic, "static"},
		{KindStreaming, "streaming"},
		{KindTone, "tone"},
		{KindFeed, "feed"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
