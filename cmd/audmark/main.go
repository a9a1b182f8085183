// SPDX-License-Identifier: EPL-2.0

// Command audmark mixes an audible watermark into audio files, either once
// from the command line or for uploads over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ik5/audmark"
	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/formats"
	"github.com/ik5/audmark/formats/wav"
	"github.com/ik5/audmark/internal/assets"
	"github.com/ik5/audmark/internal/cli"
	"github.com/ik5/audmark/internal/config"
	"github.com/ik5/audmark/internal/server"
)

// version is set via ldflags at build time
var version = "dev"

type app struct {
	stdout io.Writer
	logger *slog.Logger
	ctx    context.Context
}

type applyCmd struct {
	Input  string     `arg:"" help:"Audio file to watermark (wav, mp3, ogg, aiff, flac)." type:"existingfile"`
	Output string     `arg:"" help:"Destination WAV file." type:"path"`
	Mix    config.Mix `embed:""`
}

type serveCmd struct {
	Mix   config.Mix   `embed:""`
	Serve config.Serve `embed:""`
}

type versionCmd struct{}

type CLI struct {
	Config kong.ConfigFlag `help:"Configuration file." placeholder:"PATH"`
	Log    config.Log      `embed:""`

	Apply   applyCmd   `cmd:"" help:"Watermark one file and write the result as WAV."`
	Serve   serveCmd   `cmd:"" help:"Serve the upload form and watermark endpoint."`
	Version versionCmd `cmd:"" help:"Show version information."`
}

func (c *applyCmd) Run(a *app) error {
	if err := c.Mix.Validate(); err != nil {
		return err
	}

	wm, err := assets.LoadWatermark(c.Mix.Watermark)
	if err != nil {
		return err
	}

	opts := c.Mix.Options(a.logger)

	primary, err := decodeFile(c.Input, opts)
	if err != nil {
		return err
	}

	out, err := audmark.WatermarkSignal(primary, wm, opts...)
	if err != nil {
		return err
	}

	size, err := writeAtomic(c.Output, out)
	if err != nil {
		return err
	}

	cli.PrintSummary(a.stdout, cli.Summary{
		Input:      c.Input,
		Output:     c.Output,
		SampleRate: out.SampleRate,
		Channels:   out.ChannelCount(),
		Frames:     out.FrameCount(),
		Bytes:      size,
	})

	return nil
}

// decodeFile picks a decoder by extension and drains path with opts.
func decodeFile(path string, opts []audmark.Option) (*audio.Signal, error) {
	dec, err := formats.NewRegistry().Lookup(path)
	if err != nil {
		return nil, err
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	src, err := dec.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	return audmark.ReadSignal(src, opts...)
}

// writeAtomic streams sig next to path and renames it into place, so a
// failed run never leaves a truncated output behind.
func writeAtomic(path string, sig *audio.Signal) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".audmark-*.wav")
	if err != nil {
		return 0, fmt.Errorf("creating output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := wav.Write(tmp, sig); err != nil {
		tmp.Close()
		return 0, err
	}

	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("creating output: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("creating output: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("creating output: %w", err)
	}

	return info.Size(), nil
}

func (c *serveCmd) Run(a *app) error {
	if err := c.Mix.Validate(); err != nil {
		return err
	}

	wm, err := assets.LoadWatermark(c.Mix.Watermark)
	if err != nil {
		return err
	}

	srv, err := server.New(c.Mix, c.Serve, wm, a.logger)
	if err != nil {
		return err
	}

	cli.PrintInfo(a.stdout, "Listening", c.Serve.Listen)

	return srv.ListenAndServe(a.ctx)
}

func (versionCmd) Run(a *app) error {
	cli.PrintVersion(a.stdout, version)
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var c CLI
	exitCode := -1

	parser, err := kong.New(&c,
		kong.Name("audmark"),
		kong.Description("Mix an audible watermark into audio and save it as WAV."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Configuration(config.Loader, config.DefaultPath),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 2
	}

	level, err := c.Log.Level()
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 2
	}

	a := &app{
		stdout: stdout,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		ctx:    ctx,
	}

	if err := kctx.Run(a); err != nil {
		a.logger.Debug("command failed", "command", kctx.Command(), "error", err)

		msg := err.Error()
		if errors.Is(err, audio.ErrUnknownFormat) {
			msg = fmt.Sprintf("%s (supported: %v)", msg, formats.NewRegistry().Formats())
		}
		cli.PrintError(stderr, msg)

		return 1
	}

	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
