// SPDX-License-Identifier: EPL-2.0

package hw

import "context"

// Sample is a duty-cycle level as stored in a clip.
type Sample interface {
	~uint8 | ~uint16
}

// Edge is a GPIO transition.
type Edge uint8

const (
	EdgeRising Edge = 1 << iota
	EdgeFalling
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeRising | EdgeFalling:
		return "both"
	default:
		return "none"
	}
}

// Pull is the bias applied to an input pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Timebase is a PWM generator whose update rate equals the sample rate.
type Timebase interface {
	// Configure computes and applies divider and wrap for sampleRate at the given
	// resolution, using the current source clock.
	Configure(sampleRate uint32, res Resolution) (Period, error)
	// SetLevel writes the duty-cycle register.
	SetLevel(level uint16)
	// Enable starts or stops the generator.
	Enable(on bool)
}

// Transport streams a sample buffer into a Timebase without per-sample work from the
// caller.
type Transport[S Sample] interface {
	// Arm starts streaming samples. It fails with ErrArmed while a buffer is in flight
	// and with ErrEmpty for an empty buffer.
	Arm(samples []S) error
	// Abort stops the stream. Remaining keeps reporting the count at the time of the
	// abort and a completion that was not yet delivered is discarded.
	Abort()
	// Remaining is the number of samples not yet transferred.
	Remaining() int
	// OnComplete registers the function called when a buffer drains naturally. It is
	// called from interrupt context (or its simulation) and must not block.
	OnComplete(fn func())
}

// Claimer is implemented by transports that hold an exclusive hardware resource, such
// as a DMA channel. Claim is called once at init.
type Claimer interface {
	Claim() error
}

// Ticker fires a callback at a fixed rate. It backs timer-driven transports.
type Ticker interface {
	Start(rateHz uint32, fn func()) error
	Stop()
}

// Gate is the amplifier enable output.
type Gate interface {
	Set(on bool)
}

// EdgeSource reports edges on input pins.
type EdgeSource interface {
	// Listen configures pins as inputs with pull and calls fn from interrupt context on
	// every matching edge.
	Listen(pins []uint8, pull Pull, edge Edge, fn func(pin uint8, edge Edge)) error
}

// ClockSource reports the frequency feeding the Timebase.
type ClockSource interface {
	SourceHz() uint32
}

// Waker parks the dispatch loop until the next interrupt.
type Waker interface {
	// Wait returns when any interrupt fired since the previous Wait, or when ctx is done.
	Wait(ctx context.Context) error
	// Notify wakes a pending or the next Wait. Safe from interrupt context.
	Notify()
}

// NopGate is a Gate for boards without an amplifier enable pin.
type NopGate struct{}

func (NopGate) Set(bool) {}
