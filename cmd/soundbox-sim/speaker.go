// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/soundbox/hw/sim"
	"github.com/ik5/soundbox/utils"
)

// output converts the duty cycle of a simulated slice into float samples. Reading it
// advances the slice, so whoever reads sets the pace.
type output struct {
	mu   sync.Mutex
	tb   *sim.Timebase
	rate float64
	acc  float64
}

func newOutput(tb *sim.Timebase, rate int) *output {
	return &output{tb: tb, rate: float64(rate)}
}

// Read fills p with little-endian float32 mono samples. Each output sample runs as many
// update events as the slice's current rate asks for, so a drifted clock changes pitch.
func (o *output) Read(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := len(p) / 4
	for i := range n {
		o.acc += o.tb.Rate() / o.rate
		steps := int(o.acc)
		o.acc -= float64(steps)
		o.tb.Step(steps)

		var v float32
		if o.tb.Enabled() {
			v = utils.Int16ToFloat32(utils.LevelToInt16(o.tb.Level(), o.tb.Period().Top))
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}

	return n * 4, nil
}

// speaker plays an output on the default sound device.
type speaker struct {
	ctx    *oto.Context
	player *oto.Player
}

func newSpeaker(out *output, rate int) (*speaker, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open sound device: %w", err)
	}
	<-ready

	s := &speaker{ctx: ctx, player: ctx.NewPlayer(out)}
	s.player.Play()

	return s, nil
}

func (s *speaker) Close() error {
	return s.player.Close()
}
