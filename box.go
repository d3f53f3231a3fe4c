// SPDX-License-Identifier: EPL-2.0

package soundbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/dispatch"
	"github.com/ik5/soundbox/engine"
	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/input"
	"github.com/ik5/soundbox/registry"
)

// Hardware is the board a Box drives. Timebase and Transport are required.
type Hardware[S hw.Sample] struct {
	Timebase  hw.Timebase
	Transport hw.Transport[S]
	// Gate is the amplifier enable. Nil for none.
	Gate hw.Gate
	// Buttons delivers button edges. Nil when triggers only come from Trigger.
	Buttons hw.EdgeSource
	// Clock reports the source clock for Retime checks. Optional.
	Clock hw.ClockSource
	// Waker parks Run between passes. Optional.
	Waker hw.Waker
	// Locker guards engine state. Defaults to a mutex.
	Locker sync.Locker
}

// Stats aggregates the input and dispatch counters.
type Stats struct {
	Input    input.Stats
	Dispatch dispatch.Stats
}

// Box is a configured sound box.
type Box[S hw.Sample] struct {
	cfg  config.Config
	hw   Hardware[S]
	log  *slog.Logger
	pull hw.Pull

	reg  *registry.Registry[S]
	eng  *engine.Engine[S]
	capt *input.Capture
	loop *dispatch.Loop[S]

	mu     sync.Mutex
	period hw.Period
	inited bool
}

type Option func(*options)

type options struct {
	log *slog.Logger
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// New validates cfg and wires the parts. It does not touch the hardware; see Init.
func New[S hw.Sample](cfg config.Config, board Hardware[S], opts ...Option) (*Box[S], error) {
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if board.Timebase == nil {
		return nil, ErrNoTimebase
	}
	if board.Transport == nil {
		return nil, ErrNoTransport
	}
	if board.Gate == nil {
		board.Gate = hw.NopGate{}
	}

	edge, _ := cfg.ActivationEdge()
	pull, _ := cfg.PinPull()

	engOpts := []engine.Option{
		engine.WithGate(board.Gate),
		engine.WithIdleLevel(cfg.IdleLevel),
	}
	if board.Locker != nil {
		engOpts = append(engOpts, engine.WithLocker(board.Locker))
	}

	b := &Box[S]{
		cfg:  cfg,
		hw:   board,
		log:  o.log,
		pull: pull,
		reg:  registry.New[S](cfg.Buttons),
	}
	b.eng = engine.New(board.Timebase, board.Transport, engOpts...)

	captOpts := []input.Option{input.WithEdge(edge)}
	if board.Waker != nil {
		captOpts = append(captOpts, input.WithNotify(board.Waker.Notify))
	}
	b.capt = input.New(cfg.FirstButtonPin, b.reg, b.eng, captOpts...)

	loopOpts := []dispatch.Option[S]{
		dispatch.WithLogger[S](o.log),
		dispatch.WithLooping[S](cfg.Looping),
	}
	if board.Waker != nil {
		loopOpts = append(loopOpts, dispatch.WithWaker[S](board.Waker))
	}
	b.loop = dispatch.New[S](b.reg, b.eng, loopOpts...)

	return b, nil
}

// Init configures the timebase for the sample rate, claims the transport, parks the
// output and subscribes to the buttons. Any error is fatal for the box.
func (b *Box[S]) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inited {
		return ErrAlreadyInit
	}

	p, err := b.hw.Timebase.Configure(b.cfg.SampleRate, b.cfg.Resolution())
	if err != nil {
		return fmt.Errorf("%w: timebase: %w", ErrInit, err)
	}
	b.period = p

	if c, ok := b.hw.Transport.(hw.Claimer); ok {
		if err := c.Claim(); err != nil {
			return fmt.Errorf("%w: transport: %w", ErrInit, err)
		}
	}

	b.hw.Timebase.SetLevel(b.cfg.IdleLevel)
	b.hw.Timebase.Enable(false)
	b.hw.Gate.Set(false)

	if b.hw.Buttons != nil {
		edge, _ := b.cfg.ActivationEdge()
		if err := b.hw.Buttons.Listen(b.capt.Pins(), b.pull, edge, b.capt.Handle); err != nil {
			return fmt.Errorf("%w: buttons: %w", ErrInit, err)
		}
	}

	b.inited = true
	b.log.Info("sound box ready",
		"rate", p.Rate,
		"div", p.Divider(),
		"top", p.Top,
		"buttons", b.cfg.Buttons,
		"transport", b.cfg.Transport,
	)

	return nil
}

// ConfigureSound binds data to button index. Errors are advisory: an invalid binding
// leaves every slot unchanged. Call it during startup only.
func (b *Box[S]) ConfigureSound(index int, data []S) error {
	return b.reg.Configure(index, data)
}

// ConfigureClips binds every clip in clips and returns the joined binding errors.
func (b *Box[S]) ConfigureClips(clips map[int][]S) error {
	var errs []error
	for _, i := range slices.Sorted(maps.Keys(clips)) {
		if err := b.ConfigureSound(i, clips[i]); err != nil {
			b.log.Warn("sound not bound", "button", i, "err", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Dispatch runs one pass over the pending triggers and returns the button it started, or
// -1.
func (b *Box[S]) Dispatch() int {
	return b.loop.Dispatch()
}

// Run dispatches until ctx is done.
func (b *Box[S]) Run(ctx context.Context) error {
	b.mu.Lock()
	inited := b.inited
	b.mu.Unlock()

	if !inited {
		return ErrNotInit
	}

	return b.loop.Run(ctx)
}

// Play starts samples directly, bypassing the buttons.
func (b *Box[S]) Play(samples []S, loop bool) bool {
	return b.eng.Play(samples, loop)
}

func (b *Box[S]) Stop()             { b.eng.Stop() }
func (b *Box[S]) IsPlaying() bool   { return b.eng.IsPlaying() }
func (b *Box[S]) Position() int     { return b.eng.Position() }
func (b *Box[S]) Length() int       { return b.eng.Length() }
func (b *Box[S]) Trigger(index int) { b.capt.Trigger(index) }

// Playable reports whether button index has a clip.
func (b *Box[S]) Playable(index int) bool {
	return b.reg.Playable(index)
}

func (b *Box[S]) Buttons() int { return b.reg.Len() }

// Retime recomputes the divider from the current source clock. Call it after changing
// the system clock, otherwise the pitch drifts.
func (b *Box[S]) Retime() (hw.Period, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.hw.Timebase.Configure(b.cfg.SampleRate, b.cfg.Resolution())
	if err != nil {
		return hw.Period{}, fmt.Errorf("retime: %w", err)
	}

	if p != b.period {
		b.log.Info("timebase retimed", "source_hz", p.SourceHz, "div", p.Divider(), "rate", p.Rate)
	}
	b.period = p

	return p, nil
}

// Drifted reports whether the source clock no longer matches the one the divider was
// computed for. It is false without a Clock.
func (b *Box[S]) Drifted() bool {
	if b.hw.Clock == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.hw.Clock.SourceHz() != b.period.SourceHz
}

func (b *Box[S]) Period() hw.Period {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.period
}

func (b *Box[S]) Config() config.Config { return b.cfg }

func (b *Box[S]) Stats() Stats {
	return Stats{Input: b.capt.Stats(), Dispatch: b.loop.Stats()}
}
