// SPDX-License-Identifier: EPL-2.0

package soundbox_test

import (
	"fmt"

	"github.com/ik5/soundbox"
	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/hw/sim"
)

func Example() {
	tb := sim.NewTimebase(125_000_000)
	dma := sim.NewDMA[uint16](tb, sim.NewChannels(12))

	box, err := soundbox.New(config.Default(), soundbox.Hardware[uint16]{
		Timebase:  tb,
		Transport: dma,
	})
	if err != nil {
		panic(err)
	}
	if err := box.Init(); err != nil {
		panic(err)
	}

	_ = box.ConfigureSound(0, make([]uint16, 100))

	box.Trigger(0)
	box.Dispatch()
	fmt.Println("playing:", box.IsPlaying())

	tb.Step(60)
	fmt.Println("position:", box.Position())

	tb.Step(40)
	fmt.Println("playing:", box.IsPlaying(), "position:", box.Position())

	// Output:
	// playing: true
	// position: 60
	// playing: false position: 100
}
