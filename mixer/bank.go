// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ik5/audmix/audio"
)

// Asset is a registered sound: either a decoded clip shared by every
// stream, or an opener that gives each stream its own decoder. An asset
// with neither is a generated tone.
type Asset struct {
	ID         SourceID
	Clip       *audio.Clip
	Open       audio.Opener
	ToneHz     float64
	SampleRate int
	Channels   int
}

// Streaming reports whether the asset is decoded while playing.
func (a Asset) Streaming() bool { return a.Clip == nil && a.Open != nil }

// Bank is the asset pack a Mixer plays from. It is safe for concurrent use.
type Bank struct {
	assets map[SourceID]Asset

	mtx sync.RWMutex
}

func NewBank() *Bank {
	return &Bank{
		assets: make(map[SourceID]Asset),
	}
}

// AddClip registers a decoded clip under id.
func (b *Bank) AddClip(id SourceID, clip *audio.Clip) error {
	if clip == nil {
		return ErrNilClip
	}

	return b.add(Asset{
		ID:         id,
		Clip:       clip,
		SampleRate: clip.SampleRate(),
		Channels:   clip.Channels(),
	})
}

// AddStreaming registers a streaming asset. The opener is called once to
// learn the native format and that instance is closed right away.
func (b *Bank) AddStreaming(id SourceID, open audio.Opener) error {
	if open == nil {
		return audio.ErrNilOpener
	}

	src, err := open()
	if err != nil {
		return fmt.Errorf("inspect %q: %w", id, err)
	}
	rate, channels := src.SampleRate(), src.Channels()
	_ = src.Close()

	if rate <= 0 {
		return fmt.Errorf("inspect %q: %w", id, audio.ErrInvalidSampleRate)
	}
	if channels < 1 {
		return fmt.Errorf("inspect %q: %w", id, audio.ErrUnsupportedChannels)
	}
	if channels > 2 {
		channels = 1
	}

	return b.add(Asset{
		ID:         id,
		Open:       open,
		SampleRate: rate,
		Channels:   channels,
	})
}

func (b *Bank) add(a Asset) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if _, ok := b.assets[a.ID]; ok {
		return fmt.Errorf("%q: %w", a.ID, ErrDuplicateSource)
	}
	b.assets[a.ID] = a
	return nil
}

func (b *Bank) Lookup(id SourceID) (Asset, bool) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	a, ok := b.assets[id]
	return a, ok
}

// Remove forgets an asset. Streams already playing it are unaffected.
func (b *Bank) Remove(id SourceID) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	delete(b.assets, id)
}

// IDs lists the registered assets in sorted order.
func (b *Bank) IDs() []SourceID {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	out := make([]SourceID, 0, len(b.assets))
	for id := range b.assets {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
