// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ik5/soundbox"
	"github.com/ik5/soundbox/hw"
)

// errQuit ends the console.
var errQuit = errors.New("quit")

// controller is the part of a box the console drives.
type controller interface {
	Dispatch() int
	Stop()
	IsPlaying() bool
	Position() int
	Length() int
	Trigger(index int)
	Buttons() int
	Retime() (hw.Period, error)
	Drifted() bool
	Period() hw.Period
	Stats() soundbox.Stats
}

// simulator is the part of the board the console drives.
type simulator interface {
	press(i int) error
	step(n int)
	setClock(hz uint32)
}

type lineReader interface {
	Readline() (string, error)
}

// scanner reads commands from a pipe or a script.
type scanner struct{ s *bufio.Scanner }

func newScanner(r io.Reader) *scanner { return &scanner{s: bufio.NewScanner(r)} }

func (s *scanner) Readline() (string, error) {
	if !s.s.Scan() {
		if err := s.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return s.s.Text(), nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("press"),
	readline.PcItem("trigger"),
	readline.PcItem("stop"),
	readline.PcItem("status"),
	readline.PcItem("step"),
	readline.PcItem("clock"),
	readline.PcItem("retime"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

const help = `press N     tap button N
trigger N   raise button N without an edge
stop        stop playback
status      playback and counters
step N      run N update events
clock HZ    change the system clock without retiming
retime      reprogram the divider for the current clock
quit        leave
`

type console struct {
	box controller
	sim simulator
	out io.Writer
	// dispatch runs a dispatch pass after every command, for boxes without a Run loop.
	dispatch bool
}

// run reads commands until quit or end of input.
func (c *console) run(in lineReader) error {
	for {
		line, err := in.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}

		err = c.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
		}
		if c.dispatch {
			c.box.Dispatch()
		}
	}
}

func (c *console) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "press", "p":
		i, err := intArg(args)
		if err != nil {
			return err
		}
		return c.sim.press(i)
	case "trigger", "t":
		i, err := intArg(args)
		if err != nil {
			return err
		}
		if i < 0 || i >= c.box.Buttons() {
			return fmt.Errorf("button %d out of range [0,%d)", i, c.box.Buttons())
		}
		c.box.Trigger(i)
	case "stop", "s":
		c.box.Stop()
	case "status", "st":
		c.status()
	case "step":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		c.sim.step(n)
	case "clock":
		hz, err := intArg(args)
		if err != nil {
			return err
		}
		if hz <= 0 {
			return fmt.Errorf("clock %d", hz)
		}
		c.sim.setClock(uint32(hz))
		fmt.Fprintf(c.out, "clock %d Hz, drifted: %t\n", hz, c.box.Drifted())
	case "retime":
		p, err := c.box.Retime()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "period: top %d, divider %d+%d/16\n", p.Top, p.DivInt, p.DivFrac)
	case "help", "?":
		fmt.Fprint(c.out, help)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}

	return nil
}

func (c *console) status() {
	st := c.box.Stats()
	fmt.Fprintf(c.out, "playing: %t position: %d/%d\n", c.box.IsPlaying(), c.box.Position(), c.box.Length())
	fmt.Fprintf(c.out, "input: accepted %d busy %d ignored %d repeats %d\n",
		st.Input.Accepted, st.Input.Busy, st.Input.Ignored, st.Input.Repeats)
	fmt.Fprintf(c.out, "dispatch: passes %d started %d dropped %d\n",
		st.Dispatch.Passes, st.Dispatch.Started, st.Dispatch.Dropped)
	if c.box.Drifted() {
		fmt.Fprintln(c.out, "clock drifted, run retime")
	}
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("want one number")
	}

	return strconv.Atoi(args[0])
}
