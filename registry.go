// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"
	"os"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/flac"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
)

// NewRegistry returns a registry with every bundled decoder, keyed by file
// extension.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("flac", flac.Decoder{})
	return reg
}

// FileOpener returns an Opener that opens and decodes path on every call.
func FileOpener(reg *audio.Registry, path string) (audio.Opener, error) {
	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return func() (audio.Source, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		src, err := dec.Decode(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return src, nil
	}, nil
}

// LoadAsset registers the file at path in bank. Static assets are decoded
// fully right away and, when rate > 0, converted to rate so that playback
// at that mixing rate needs no per-stream conversion. Streaming assets are
// only opened once for their format and get decoded while they play.
func LoadAsset(bank *mixer.Bank, reg *audio.Registry, id mixer.SourceID, path string, streaming bool, rate int) error {
	open, err := FileOpener(reg, path)
	if err != nil {
		return err
	}

	if streaming {
		return bank.AddStreaming(id, open)
	}

	src, err := open()
	if err != nil {
		return err
	}
	defer src.Close()

	clip, err := audio.LoadClip(src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if rate > 0 {
		if clip, err = clip.Convert(rate); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return bank.AddClip(id, clip)
}
