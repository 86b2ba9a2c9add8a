// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/output"
)

// Settings is everything needed to build an engine, as read from the
// config file and environment.
type Settings struct {
	LogLevel string `mapstructure:"loglevel"`
	LogFile  string `mapstructure:"logfile"`

	// SampleRate is the internal mixing rate. DeviceRate is the rate the
	// device is opened at; 0 means the same as SampleRate.
	SampleRate    int    `mapstructure:"samplerate"`
	DeviceRate    int    `mapstructure:"devicerate"`
	Channels      int    `mapstructure:"channels"`
	Interpolation string `mapstructure:"interpolation"`

	MaxStreams      int `mapstructure:"maxstreams"`
	DecodeBudget    int `mapstructure:"decodebudget"`
	LookaheadFrames int `mapstructure:"lookaheadframes"`
	LowWaterFrames  int `mapstructure:"lowwaterframes"`

	// RingChunks is the transport ring capacity in chunks.
	RingChunks       int           `mapstructure:"ringchunks"`
	MaxChunksPerTick int           `mapstructure:"maxchunkspertick"`
	TickInterval     time.Duration `mapstructure:"tickinterval"`

	Format       string        `mapstructure:"format"`
	DeviceBuffer time.Duration `mapstructure:"devicebuffer"`
	Declick      bool          `mapstructure:"declick"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("loglevel", "info")
	v.SetDefault("logfile", "")
	v.SetDefault("samplerate", 48000)
	v.SetDefault("devicerate", 0)
	v.SetDefault("channels", 2)
	v.SetDefault("interpolation", "linear")
	v.SetDefault("maxstreams", 64)
	v.SetDefault("decodebudget", 4*audio.ChunkFrames)
	v.SetDefault("lookaheadframes", audio.DefaultLookaheadFrames)
	v.SetDefault("lowwaterframes", 0)
	v.SetDefault("ringchunks", 8)
	v.SetDefault("maxchunkspertick", 2)
	v.SetDefault("tickinterval", time.Duration(0))
	v.SetDefault("format", "f32le")
	v.SetDefault("devicebuffer", 40*time.Millisecond)
	v.SetDefault("declick", true)
}

// Defaults returns the settings used when no config file is present.
func Defaults() Settings {
	v := viper.New()
	setDefaults(v)

	var s Settings
	// defaults always decode
	_ = v.Unmarshal(&s)
	return s
}

// Load reads configFilePath on top of the defaults. A missing file is not
// an error. Values can also be set through AUDMIX_* environment variables.
func Load(configFilePath string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("audmix")
	v.AutomaticEnv()

	if configFilePath != "" {
		v.SetConfigFile(configFilePath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isMissingFile(err) {
				return Settings{}, fmt.Errorf("read config %q: %w", configFilePath, err)
			}
			slog.Info("no config file found", "configFilePath", configFilePath)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values no component accepts.
func (s Settings) Validate() error {
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.SampleRate <= 0 || s.DeviceRate < 0 {
		return ErrInvalidSampleRate
	}
	if s.Channels != 1 && s.Channels != 2 {
		return ErrInvalidChannels
	}
	if _, err := s.InterpolationMode(); err != nil {
		return err
	}
	if _, err := s.OutputFormat(); err != nil {
		return err
	}
	if s.RingChunks < 2 {
		return ErrInvalidRingSize
	}
	if s.LookaheadFrames < 0 || s.LowWaterFrames < 0 ||
		(s.LookaheadFrames > 0 && s.LowWaterFrames >= s.LookaheadFrames) {
		return ErrInvalidLookahead
	}
	if s.DecodeBudget < 0 || s.MaxChunksPerTick < 0 {
		return ErrInvalidBudget
	}
	return nil
}

// OutputRate is the device rate, falling back to the mixing rate.
func (s Settings) OutputRate() int {
	if s.DeviceRate > 0 {
		return s.DeviceRate
	}
	return s.SampleRate
}

func (s Settings) InterpolationMode() (audio.Interpolation, error) {
	switch strings.ToLower(s.Interpolation) {
	case "", "linear":
		return audio.Linear, nil
	case "cubic":
		return audio.Cubic, nil
	default:
		return 0, fmt.Errorf("%q: %w", s.Interpolation, ErrInvalidInterpolation)
	}
}

func (s Settings) OutputFormat() (output.Format, error) {
	switch strings.ToLower(s.Format) {
	case "", "f32le":
		return output.FormatFloat32LE, nil
	case "s16le":
		return output.FormatInt16LE, nil
	default:
		return 0, fmt.Errorf("%q: %w", s.Format, ErrInvalidFormat)
	}
}

// viper reports an explicit but absent config file as a plain fs error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
