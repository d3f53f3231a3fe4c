// SPDX-License-Identifier: EPL-2.0

// Command convert-sounds turns a directory of recordings into clips for the box.
//
// Every decodable file (wav, mp3, ogg, aiff) is mixed to mono, amplified by the configured
// gain, resampled to the box rate and scaled onto the duty-cycle range. The result is
// either one Go source file to build into the firmware, or one raw level file per button
// plus a configuration that binds them, for the simulator.
//
//	convert-sounds -in sounds -out firmware/sounds -format go -pkg sounds
//	convert-sounds -in sounds -out build -format raw -simple
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/soundbox/assets"
	"github.com/ik5/soundbox/audio"
	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/hw"
)

type options struct {
	in, out  string
	cfgPath  string
	format   string
	pkg      string
	simple   bool
	workers  int
	verbose  bool
	cfg      config.Config
	registry *audio.Registry
	log      *slog.Logger
}

func main() {
	var o options
	flag.StringVar(&o.in, "in", "sounds", "directory holding the recordings")
	flag.StringVar(&o.out, "out", ".", "output directory")
	flag.StringVar(&o.cfgPath, "config", "", "box configuration (defaults when empty)")
	flag.StringVar(&o.format, "format", "go", "output format: go or raw")
	flag.StringVar(&o.pkg, "pkg", "sounds", "package name of the generated file")
	flag.BoolVar(&o.simple, "simple", false, "8-bit timer board instead of the DMA board")
	flag.IntVar(&o.workers, "workers", 4, "files converted at once")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	o.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, &o); err != nil {
		o.log.Error("convert failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options) error {
	switch {
	case o.cfgPath != "":
		cfg, err := config.Load(o.cfgPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	case o.simple:
		o.cfg = config.Simple()
	default:
		o.cfg = config.Default()
	}
	if o.format != "go" && o.format != "raw" {
		return fmt.Errorf("unknown output format %q", o.format)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	o.registry = assets.DefaultRegistry()

	if o.cfg.Top() <= 0xff {
		return convert[uint8](ctx, o)
	}

	return convert[uint16](ctx, o)
}

func convert[S hw.Sample](ctx context.Context, o *options) error {
	inputs, err := scan(o.registry, o.in, o.cfg.Buttons)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no recordings in %s (formats: %v)", o.in, o.registry.Formats())
	}

	f := assets.FormatFor(o.cfg)
	o.log.Info("converting",
		"files", len(inputs), "rate", f.Rate, "top", f.Top, "gain", f.Gain, "format", o.format)

	clips := make([]assets.Clip[S], len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := assets.Load[S](o.registry, in.path, f)
			if err != nil {
				return err
			}

			name := in.name
			if _, err := strconv.Atoi(name); err != nil {
				name = fmt.Sprintf("%02d-%s", in.button+1, name)
			}
			clips[i] = assets.Clip[S]{Button: in.button, Name: name, Source: filepath.Base(in.path), Data: data}
			o.log.Debug("converted", "button", in.button, "file", in.path, "samples", len(data))

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(o.out, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", o.out, err)
	}

	if o.format == "go" {
		return writeGo(o, f, clips)
	}

	return writeRaw(o, clips)
}

func writeGo[S hw.Sample](o *options, f assets.Format, clips []assets.Clip[S]) (err error) {
	path := filepath.Join(o.out, o.pkg+".go")
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { err = errors.Join(err, out.Close()) }()

	if err := assets.WriteGo(out, o.pkg, f, clips); err != nil {
		return err
	}
	o.log.Info("wrote", "path", path, "clips", len(clips))

	return nil
}

// writeRaw stores one level file per clip and a configuration binding them, which the
// simulator loads with -config.
func writeRaw[S hw.Sample](o *options, clips []assets.Clip[S]) error {
	var (
		mu     sync.Mutex
		sounds = make(map[string]string, len(clips))
	)

	var g errgroup.Group
	g.SetLimit(o.workers)
	for _, c := range clips {
		g.Go(func() (err error) {
			path := filepath.Join(o.out, fmt.Sprintf("%02d%s", c.Button+1, assets.RawExt))
			out, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer func() { err = errors.Join(err, out.Close()) }()

			if err := assets.WriteRaw(out, c.Data); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			mu.Lock()
			sounds[strconv.Itoa(c.Button)] = abs
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cfg := o.cfg
	cfg.Sounds = sounds
	path := filepath.Join(o.out, "soundbox.json")
	if err := cfg.Save(path); err != nil {
		return err
	}
	o.log.Info("wrote", "dir", o.out, "clips", len(clips), "config", path)

	return nil
}
