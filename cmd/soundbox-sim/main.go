// SPDX-License-Identifier: EPL-2.0

// Command soundbox-sim runs a sound box against simulated hardware.
//
// The board is the one the configuration describes, DMA or timer driven, with the
// buttons, amplifier gate and PWM slice simulated. The slice is clocked in real time, by
// the sound device (so the clips are audible) or only by the step command. Commands come
// from an interactive prompt, a pipe or a script:
//
//	soundbox-sim -config build/soundbox.json -clock speaker
//	soundbox-sim -clock manual -script demo.txt -record demo.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ik5/soundbox"
	"github.com/ik5/soundbox/assets"
	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/formats/wav"
	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/hw/sim"
)

const (
	clockRealtime = "realtime"
	clockSpeaker  = "speaker"
	clockManual   = "manual"
)

type options struct {
	cfgPath string
	clock   string
	record  string
	script  string
	simple  bool
	verbose bool
}

func main() {
	var o options
	flag.StringVar(&o.cfgPath, "config", "", "box configuration (defaults when empty)")
	flag.StringVar(&o.clock, "clock", clockRealtime, "slice clock: realtime, speaker or manual")
	flag.StringVar(&o.record, "record", "", "write the output to this WAV file on exit")
	flag.StringVar(&o.script, "script", "", "read commands from this file instead of the terminal")
	flag.BoolVar(&o.simple, "simple", false, "8-bit timer board when no configuration is given")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "soundbox-sim:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, stdin *os.File, stdout io.Writer) error {
	cfg := config.Default()
	switch {
	case o.cfgPath != "":
		var err error
		if cfg, err = config.Load(o.cfgPath); err != nil {
			return err
		}
	case o.simple:
		cfg = config.Simple()
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var in lineReader
	switch {
	case o.script != "":
		f, err := os.Open(o.script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = newScanner(f)
	case term.IsTerminal(int(stdin.Fd())):
		rl, err := readline.NewEx(&readline.Config{
			Prompt:       "soundbox> ",
			AutoComplete: completer,
			Stdin:        stdin,
			Stdout:       stdout,
		})
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer rl.Close()
		in = rl
		stdout = rl.Stdout()
	default:
		in = newScanner(stdin)
	}

	if cfg.Top() <= 0xff {
		return simulate[uint8](ctx, o, cfg, log, in, stdout)
	}

	return simulate[uint16](ctx, o, cfg, log, in, stdout)
}

func simulate[S hw.Sample](ctx context.Context, o options, cfg config.Config, log *slog.Logger, in lineReader, out io.Writer) error {
	b, err := newBoard[S](cfg, o.record != "")
	if err != nil {
		return err
	}

	clips, err := loadClips[S](ctx, cfg, log)
	if err != nil {
		return err
	}

	box, err := soundbox.New(cfg, b.hardware(), soundbox.WithLogger(log))
	if err != nil {
		return err
	}
	if err := box.Init(); err != nil {
		return err
	}
	if err := box.ConfigureClips(clips); err != nil {
		return err
	}

	p := box.Period()
	log.Info("box ready",
		"transport", cfg.Transport, "rate", p.Rate, "top", p.Top,
		"divider", p.Divider(), "clips", len(clips), "clock", o.clock)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	manual := o.clock == clockManual

	g, gctx := errgroup.WithContext(ctx)
	if !manual {
		g.Go(func() error { return box.Run(gctx) })
	}

	switch o.clock {
	case clockRealtime:
		g.Go(func() error { return sim.RunClock(gctx, b.tb, 5*time.Millisecond) })
	case clockSpeaker:
		sp, err := newSpeaker(newOutput(b.tb, int(cfg.SampleRate)), int(cfg.SampleRate))
		if err != nil {
			cancel()
			return errors.Join(err, g.Wait())
		}
		defer sp.Close()
	case clockManual:
	default:
		cancel()
		return errors.Join(fmt.Errorf("unknown clock %q", o.clock), g.Wait())
	}

	c := &console{box: box, sim: b, out: out, dispatch: manual}
	done := make(chan error, 1)
	go func() { done <- c.run(in) }()

	var cerr error
	select {
	case cerr = <-done:
	case <-gctx.Done():
	}
	cancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Join(cerr, err)
	}
	if cerr != nil {
		return cerr
	}

	if b.tape != nil {
		return record(o.record, int(cfg.SampleRate), b.tape.PCM16(box.Period().Top), log)
	}

	return nil
}

// loadClips converts the configured sounds, or falls back to a bank of tones.
func loadClips[S hw.Sample](ctx context.Context, cfg config.Config, log *slog.Logger) (map[int][]S, error) {
	sounds, err := cfg.SoundMap()
	if err != nil {
		return nil, err
	}

	f := assets.FormatFor(cfg)
	if len(sounds) == 0 {
		log.Info("no sounds configured, using tones", "buttons", cfg.Buttons)
		return assets.ToneBank[S](cfg.Buttons, f), nil
	}

	return assets.LoadAll[S](ctx, assets.DefaultRegistry(), sounds, f)
}

func record(path string, rate int, pcm []int16, log *slog.Logger) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	if err := wav.Encode(f, rate, pcm); err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	log.Info("recorded", "path", path, "samples", len(pcm))

	return nil
}
