// SPDX-License-Identifier: EPL-2.0

// Command audmix mixes the given audio files together and plays them on the
// default audio device, or renders the mix to a WAV file with -out.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/output"
	"github.com/ik5/audmix/transport"
)

func main() {
	configFilePath := flag.String("config", "audmix.yaml", "Set the file path to the config file.")
	outPath := flag.String("out", "", "Render to this WAV file instead of playing.")
	duration := flag.Duration("duration", 10*time.Second, "How long to play or render.")
	stream := flag.Bool("stream", false, "Decode the inputs while playing instead of loading them fully.")
	loop := flag.Bool("loop", false, "Loop every input.")
	tone := flag.Float64("tone", 0, "Add a sine tone of this frequency in Hz.")
	fade := flag.Duration("fade", 500*time.Millisecond, "Fade out length at the end.")
	flag.Parse()

	if err := run(*configFilePath, *outPath, *duration, *stream, *loop, *tone, *fade, flag.Args()); err != nil {
		slog.Error("audmix failed", "err", err)
		os.Exit(1)
	}
}

func run(configFilePath, outPath string, duration time.Duration, stream, loop bool, tone float64, fade time.Duration, inputs []string) error {
	settings, err := config.Load(configFilePath)
	if err != nil {
		return err
	}

	logFile, err := config.ConfigureDefaultLogger(settings.LogLevel, settings.LogFile, slog.HandlerOptions{})
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if len(inputs) == 0 && tone <= 0 {
		return errors.New("usage: audmix [flags] <input.{wav|mp3|ogg|aiff|flac}>...")
	}

	bank := mixer.NewBank()
	reg := audmix.NewRegistry()
	for _, path := range inputs {
		id := mixer.SourceID(filepath.Base(path))
		if err := audmix.LoadAsset(bank, reg, id, path, stream, settings.SampleRate); err != nil {
			return err
		}
		slog.Info("loaded asset", "id", id, "streaming", stream)
	}

	if outPath != "" {
		return render(bank, settings, outPath, duration, loop, tone)
	}
	return play(bank, settings, duration, loop, tone, fade)
}

func startAll(m *mixer.Mixer, loop bool, tone float64) []mixer.Handle {
	p := mixer.DefaultPlayParams()
	p.Loop = loop

	var handles []mixer.Handle
	for _, id := range m.Bank().IDs() {
		h, err := m.Play(id, p)
		if err != nil {
			slog.Warn("play failed", "id", id, "err", err)
			continue
		}
		handles = append(handles, h)
	}
	if tone > 0 {
		p.Volume = 0.2
		handles = append(handles, m.PlayTone(tone, p))
	}
	return handles
}

func play(bank *mixer.Bank, settings config.Settings, duration time.Duration, loop bool, tone float64, fade time.Duration) error {
	engine, err := audmix.New(bank, settings)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := engine.Start(ctx); err != nil {
		return err
	}

	m := engine.Mixer()
	handles := startAll(m, loop, tone)

	go logErrors(ctx, m.Errors())

	timer := time.NewTimer(max(duration-fade, 0))
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}

	for _, h := range handles {
		m.FadeOut(h, fade)
	}
	select {
	case <-ctx.Done():
	case <-time.After(fade):
	}

	stats := m.Stats()
	slog.Info("done", "ticks", stats.Ticks, "starvedTicks", stats.StarvedTicks, "finished", stats.Finished)
	return nil
}

// logErrors reports stream diagnostics until ctx ends.
func logErrors(ctx context.Context, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			slog.Warn("stream error", "err", err)
		}
	}
}

func render(bank *mixer.Bank, settings config.Settings, outPath string, duration time.Duration, loop bool, tone float64) error {
	mode, err := settings.InterpolationMode()
	if err != nil {
		return err
	}

	m, err := mixer.New(bank, mixer.Config{
		SampleRate:      settings.SampleRate,
		Channels:        settings.Channels,
		Interpolation:   mode,
		MaxStreams:      settings.MaxStreams,
		DecodeBudget:    settings.DecodeBudget,
		LookaheadFrames: settings.LookaheadFrames,
		LowWaterFrames:  settings.LowWaterFrames,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	startAll(m, loop, tone)

	var src transport.Producer = m
	rate := settings.SampleRate
	if settings.OutputRate() != settings.SampleRate {
		stage, err := mixer.NewOutputStage(m, settings.OutputRate(), mode)
		if err != nil {
			return err
		}
		src, rate = stage, stage.SampleRate()
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := output.NewWAVFile(f, rate, settings.Channels)
	frames := int64(duration.Seconds() * float64(rate))
	if err := w.Record(src, frames); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	slog.Info("rendered", "path", outPath, "frames", w.Frames(), "rate", rate)
	return nil
}
