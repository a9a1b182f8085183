// SPDX-License-Identifier: EPL-2.0

// Package config holds the watermarking settings shared by the CLI and the
// HTTP server, and a YAML loader that feeds them into kong.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/ik5/audmark"
	"github.com/ik5/audmark/audio"
)

// DefaultPath is the config file consulted when --config is not given.
const DefaultPath = "~/.config/audmark/config.yaml"

const (
	defaultListen    = ":8080"
	defaultMaxUpload = 50 << 20
	maxGain          = 16
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Mix controls how a watermark is applied. The kong tags make it usable as
// an embedded flag group.
type Mix struct {
	Gain       float32 `help:"Watermark gain." default:"0.1" env:"AUDMARK_GAIN"`
	Watermark  string  `help:"Watermark audio file. Uses the built-in watermark when empty." type:"path" env:"AUDMARK_WATERMARK"`
	RateMatch  bool    `help:"Resample the watermark to the input sample rate." env:"AUDMARK_RATE_MATCH"`
	Quality    string  `help:"Resampler quality (quick, low, medium, high, veryhigh)." default:"high" env:"AUDMARK_QUALITY"`
	Mono       bool    `help:"Downmix the input to mono before mixing." env:"AUDMARK_MONO"`
	BufferSize int     `help:"Read buffer size in samples." default:"4096" env:"AUDMARK_BUFFER_SIZE"`
}

// Serve holds the HTTP front-end settings.
type Serve struct {
	Listen    string `help:"Address to listen on." default:":8080" env:"AUDMARK_LISTEN"`
	MaxUpload int64  `help:"Largest accepted upload in bytes." default:"52428800" env:"AUDMARK_MAX_UPLOAD"`
}

// Log selects the slog level for CLI and server output.
type Log struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info" env:"AUDMARK_LOG_LEVEL"`
}

// DefaultMix mirrors the kong defaults of Mix.
func DefaultMix() Mix {
	return Mix{
		Gain:       audio.DefaultWatermarkGain,
		Quality:    string(audio.QualityHigh),
		BufferSize: 4096,
	}
}

func DefaultServe() Serve {
	return Serve{Listen: defaultListen, MaxUpload: defaultMaxUpload}
}

func DefaultLog() Log {
	return Log{LogLevel: "info"}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks ranges kong cannot express in tags.
func (m Mix) Validate() error {
	g := float64(m.Gain)
	if math.IsNaN(g) || math.IsInf(g, 0) || math.Abs(g) > maxGain {
		return invalid("gain %v outside [-%d, %d]", m.Gain, maxGain, maxGain)
	}

	if _, err := audio.ParseQuality(m.Quality); err != nil {
		return invalid("quality %q", m.Quality)
	}

	if m.BufferSize < 1 {
		return invalid("buffer size %d", m.BufferSize)
	}

	return nil
}

// Options translates the settings into pipeline options.
func (m Mix) Options(logger *slog.Logger) []audmark.Option {
	opts := []audmark.Option{
		audmark.WithGain(m.Gain),
		audmark.WithMono(m.Mono),
		audmark.WithBufferSize(m.BufferSize),
		audmark.WithLogger(logger),
	}

	if m.RateMatch {
		// Validate already rejected unknown names
		q, _ := audio.ParseQuality(m.Quality)
		opts = append(opts, audmark.WithRateMatch(q))
	}

	return opts
}

func (s Serve) Validate() error {
	if strings.TrimSpace(s.Listen) == "" {
		return invalid("empty listen address")
	}

	if s.MaxUpload < 1 {
		return invalid("max upload %d", s.MaxUpload)
	}

	return nil
}

// Level parses LogLevel.
func (l Log) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.LogLevel)); err != nil {
		return slog.LevelInfo, invalid("log level %q", l.LogLevel)
	}

	return lvl, nil
}

// Values is a parsed config file: flag names with "-" spelled "_".
type Values map[string]any

// Parse reads a flat YAML mapping.
func Parse(r io.Reader) (Values, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	vals := Values{}
	if err := yaml.Unmarshal(data, &vals); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return vals, nil
}

// Lookup returns the value for a kong flag name as kong-parsable text.
func (v Values) Lookup(flag string) (string, bool) {
	raw, ok := v[strings.ReplaceAll(flag, "-", "_")]
	if !ok || raw == nil {
		return "", false
	}

	return fmt.Sprint(raw), true
}

// Loader is a kong.ConfigurationLoader backed by goccy/go-yaml.
func Loader(r io.Reader) (kong.Resolver, error) {
	vals, err := Parse(r)
	if err != nil {
		return nil, err
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if s, ok := vals.Lookup(flag.Name); ok {
			return s, nil
		}
		return nil, nil
	}), nil
}
